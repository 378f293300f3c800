package logger

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/CLDWare/methods-lab/config"
)

var (
	DebugLogger   *log.Logger
	InfoLogger    *log.Logger
	WarningLogger *log.Logger
	ErrorLogger   *log.Logger
	initialized   bool
)

var logLevels = map[string]uint{
	"debug": 1,
	"info":  2,
	"warn":  3,
	"error": 4,
}

var currentLevel uint

// Init initializes the logger with configuration
func Init() {
	if initialized {
		return
	}

	DebugLogger = log.New(os.Stdout, "DEBUG: ", log.Ltime|log.Lshortfile)
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ltime|log.Lshortfile)
	WarningLogger = log.New(os.Stdout, "WARN: ", log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERR: ", log.Ltime|log.Lshortfile)

	SetLevel(config.Get().Logging.Level)

	initialized = true
}

// SetLevel changes the minimum level that gets written
func SetLevel(level string) {
	currentLevel = logLevels[strings.ToLower(level)]
	if currentLevel == 0 {
		currentLevel = logLevels["info"]
	}
}

func Debug(v ...any) {
	if initialized && currentLevel <= logLevels["debug"] {
		DebugLogger.Output(2, fmt.Sprintln(v...))
	}
}

func Info(v ...any) {
	if initialized && currentLevel <= logLevels["info"] {
		InfoLogger.Output(2, fmt.Sprintln(v...))
	}
}

func Warn(v ...any) {
	if initialized && currentLevel <= logLevels["warn"] {
		WarningLogger.Output(2, fmt.Sprintln(v...))
	}
}

func Err(v ...any) {
	if initialized && currentLevel <= logLevels["error"] {
		ErrorLogger.Output(2, fmt.Sprintln(v...))
	}
}
