package services_test

import (
	"github.com/mentorlink/mentorlink-api/pkg/logger"
)

func init() {
	// Initialize a no-op logger so services under test can log freely
	logger.InitForTests()
}
