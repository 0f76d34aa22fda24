package util

import (
	"log"
	"os"
)

// NewLogger is the single logger constructor; everything downstream
// receives the instance explicitly.
func NewLogger() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags)
}
