package main

import (
	"countryfx/internal/app"
	"os"

	"github.com/sirupsen/logrus"
)

// @title Countries & Exchange Rates API
// @version 1.0
// @description Country metadata merged with currency exchange rates, with estimated GDP and a summary image.
// @BasePath /
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Application stopped")
		os.Exit(1)
	}
}
