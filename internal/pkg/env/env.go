package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// values holds the key/value pairs read from the .env file. OS environment
// variables take precedence only when a key is absent from the file, so a
// container can still override single values without shipping a .env.
var values map[string]string

// GetEnv resolves a configuration key, falling back to the process
// environment and then to the given default.
func GetEnv(key, def string) string {
	if v, ok := values[key]; ok {
		return v
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// SetupEnvFile loads the .env file. Candidate paths cover running from
// the repository root and from inside cmd/ during development.
func SetupEnvFile() {
	candidates := []string{".env", "../../.env", "../../../.env"}

	for _, path := range candidates {
		parsed, err := godotenv.Read(path)
		if err != nil {
			continue
		}
		values = parsed
		return
	}

	panic(fmt.Sprintf("no .env file found, looked in %v", candidates))
}

// IsDev reports whether the app runs with APP_ENV=dev.
func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
