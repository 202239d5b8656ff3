package lelet

import "github.com/sirupsen/logrus"

// logger is the package-level structured logger. It defaults to logrus's
// standard logger and can be swapped by an embedding application via
// SetLogger.
var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used for scheduling diagnostics. Passing
// nil restores the standard logrus logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}
