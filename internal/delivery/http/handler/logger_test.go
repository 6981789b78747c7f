package handler

import (
	"io"

	"github.com/sirupsen/logrus"
)

func newDiscardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
