package observability

const (
	MUsecaseRequests         MetricKey = "usecase_requests_total"
	MUsecaseDuration         MetricKey = "usecase_duration_seconds"
	MExternalRequests        MetricKey = "external_requests_total"
	MExternalRequestDuration MetricKey = "external_request_duration_seconds"
	MPurchaseAmount          MetricKey = "purchase_amount"
	MConsoleCommands         MetricKey = "console_commands_total"
	MConsoleCommandDuration  MetricKey = "console_command_duration_seconds"
)
