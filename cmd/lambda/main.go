package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"github.com/faradayfan/instance-power/internal/compute"
	"github.com/faradayfan/instance-power/internal/config"
	"github.com/faradayfan/instance-power/internal/control"
	"github.com/faradayfan/instance-power/internal/logging"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatalf("[lambda] failed to load config: %v", err)
	}

	logger := logging.New(cfg.Log)

	ec2Client, err := compute.NewEC2(cfg.Region)
	if err != nil {
		logger.Fatalf("[lambda] failed to create ec2 client: %v", err)
	}

	handler := control.NewHandler(cfg.InstanceID, ec2Client, logger)

	logger.WithFields(logrus.Fields{
		"instance_id": cfg.InstanceID,
		"region":      cfg.Region,
	}).Info("[lambda] ready")

	lambda.Start(handler.Handle)
}
