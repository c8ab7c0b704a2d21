package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ralt/rpm-builder/internal/cli"
	"github.com/ralt/rpm-builder/internal/models"
	"github.com/sirupsen/logrus"
)

func main() {
	// Setup logging format
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var be *models.BuildError
		if errors.As(err, &be) {
			// The context trail spans several lines; keep it readable
			fmt.Fprintln(os.Stderr, be.Error())
		} else {
			logrus.Error(err)
		}
		os.Exit(1)
	}
}
