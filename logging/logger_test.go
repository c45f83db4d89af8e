package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	BoostrapLogger()
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	SetLevel("warn")
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())

	SetLevel("loud")
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel(), "unknown level keeps the previous one")
}
