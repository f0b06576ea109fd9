package openhours

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// ErrNotPointer is returned by SetConfigFromEnvVars when s is not a pointer to a struct.
var ErrNotPointer = errors.New("config must be a pointer to a struct")

// GetenvOrDefault returns the trimmed value of key, or defaultValue when it is empty.
func GetenvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	return value
}

// GetenvBoolOrDefault returns key parsed as a bool, or defaultValue when missing or invalid.
func GetenvBoolOrDefault(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}

	return value
}

// GetenvIntOrDefault returns key parsed as an int64, or defaultValue when missing or invalid.
func GetenvIntOrDefault(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(key)), 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// SetConfigFromEnvVars fills the `env:"NAME"` tagged fields of the struct s points to.
// Supported kinds are string, bool and signed integers; missing variables leave zero values.
//
//	type Config struct {
//		ServerAddress string `env:"SERVER_ADDRESS"`
//		EnableTelemetry bool `env:"ENABLE_TELEMETRY"`
//	}
func SetConfigFromEnvVars(s any) error {
	ptr := reflect.ValueOf(s)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() || ptr.Elem().Kind() != reflect.Struct {
		return ErrNotPointer
	}

	value := ptr.Elem()
	kind := value.Type()

	for i := range kind.NumField() {
		tag, ok := kind.Field(i).Tag.Lookup("env")
		if !ok || tag == "" {
			continue
		}

		field := value.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(GetenvOrDefault(tag, field.String()))
		case reflect.Bool:
			field.SetBool(GetenvBoolOrDefault(tag, field.Bool()))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			field.SetInt(GetenvIntOrDefault(tag, field.Int()))
		default:
			return fmt.Errorf("field %s: unsupported kind %s", kind.Field(i).Name, field.Kind())
		}
	}

	return nil
}

// LocalEnvConfig records the outcome of loading the local .env file.
type LocalEnvConfig struct {
	Initialized bool
}

var (
	localEnvConfig     *LocalEnvConfig
	localEnvConfigOnce sync.Once
)

// InitLocalEnvConfig prints VERSION and ENV_NAME once and, when ENV_NAME is
// "local", loads variables from a .env file in the working directory.
func InitLocalEnvConfig() *LocalEnvConfig {
	version := GetenvOrDefault("VERSION", "NO-VERSION")
	envName := GetenvOrDefault("ENV_NAME", "local")

	localEnvConfigOnce.Do(func() {
		fmt.Printf("VERSION: %s\n\nENVIRONMENT NAME: %s\n\n", version, envName)

		if envName != "local" {
			return
		}

		if err := godotenv.Load(); err != nil {
			fmt.Println("Skipping .env file, using environment variables.")

			localEnvConfig = &LocalEnvConfig{}

			return
		}

		localEnvConfig = &LocalEnvConfig{Initialized: true}
	})

	return localEnvConfig
}
