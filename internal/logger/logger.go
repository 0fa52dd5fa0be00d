// Package logger держит общий для процесса логгер logrus.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log — логгер сервиса. До Init пишет в stderr текстом на уровне info.
var Log = logrus.New()

// Init переключает логгер на JSON и выставляет уровень.
func Init(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetLevel(lvl)
	return nil
}
