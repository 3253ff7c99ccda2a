package logginghelper

import (
	log "github.com/sirupsen/logrus"
)

func LogReceived(app, level, message string) {
	log.WithFields(log.Fields{
		"app":     app,
		"level":   level,
		"message": message,
	}).Info("Received log via HTTP")
}

func LogError(app string, err error) {
	log.WithFields(log.Fields{
		"app":   app,
		"error": err,
	}).Error("Request failed")
}
