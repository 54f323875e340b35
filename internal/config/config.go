package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings carries everything the smoke CLI and the browser session
// read from the environment.
type Settings struct {
	BaseURL      string        // target application; empty means "serve the embedded demo app"
	ListenAddr   string        // demo app listener, used when BaseURL is empty
	CourseID     string        // course context for the enrollment flows
	StartPage    string        // combined page start form: login or register
	Headless     bool
	SlowMotion   time.Duration
	Timeout      time.Duration // element interaction budget
	WaitTimeout  time.Duration // condition-wait budget
	PollInterval time.Duration
	DumpDir      string // where failed flows drop their page dumps
}

// Load reads .env, overlays .env.$APP_ENV, and returns the effective
// settings with defaults filled in.
func Load() Settings {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Info: no .env file found (this is OK for CI/CD)")
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err != nil {
		log.Printf("Info: no %s overlay", envFile)
	}

	log.Printf("Environment loaded: APP_ENV=%s", appEnv)

	return Settings{
		BaseURL:      getString("BASE_URL", ""),
		ListenAddr:   getString("LISTEN_ADDR", "127.0.0.1:0"),
		CourseID:     getString("COURSE_ID", "edX/DemoX/Demo_Course"),
		StartPage:    getString("START_PAGE", "register"),
		Headless:     getBool("HEADLESS", true),
		SlowMotion:   getDuration("SLOW_MOTION", 0),
		Timeout:      getDuration("BROWSER_TIMEOUT", 10*time.Second),
		WaitTimeout:  getDuration("WAIT_TIMEOUT", 10*time.Second),
		PollInterval: getDuration("POLL_INTERVAL", 200*time.Millisecond),
		DumpDir:      getString("DUMP_DIR", "log"),
	}
}

func getString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
