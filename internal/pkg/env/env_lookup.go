package env

import "os"

func TrySetFromEnv(envName string, val *string) {
	if envVal, found := os.LookupEnv(envName); found {
		*val = envVal
	}
}

// GetDefault returns the variable's value, or def when it is unset or empty.
func GetDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
