package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/signup-site/internal/config"
)

func TestSetupUsesJSONFormatterInProduction(t *testing.T) {
	resetLogger()

	entry, err := Setup(config.Config{AppEnv: config.EnvProduction, LogLevel: "info"})
	require.NoError(t, err)

	jsonFormatter, ok := entry.Logger.Formatter.(*logrus.JSONFormatter)
	require.True(t, ok, "expected JSON formatter, got %T", entry.Logger.Formatter)
	assert.Equal(t, "ts", jsonFormatter.FieldMap[logrus.FieldKeyTime])
	assert.Equal(t, serviceName, entry.Data["service"])
	assert.Equal(t, config.EnvProduction, entry.Data["env"])
}

func TestSetupUsesTextFormatterInDevelopment(t *testing.T) {
	resetLogger()

	entry, err := Setup(config.Config{AppEnv: config.EnvDevelopment, LogLevel: "debug"})
	require.NoError(t, err)

	_, ok := entry.Logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok, "expected text formatter, got %T", entry.Logger.Formatter)
	assert.Equal(t, logrus.DebugLevel, entry.Logger.GetLevel())
}

func TestSetupRejectsInvalidLogLevel(t *testing.T) {
	resetLogger()

	_, err := Setup(config.Config{AppEnv: config.EnvDevelopment, LogLevel: "loud"})
	assert.Error(t, err)
	assert.Nil(t, baseLogger, "base logger should remain unset after failure")
}

func TestComponentKeepsBaseFields(t *testing.T) {
	resetLogger()

	logger, hook := test.NewNullLogger()
	baseLogger = logger.WithFields(logrus.Fields{
		"service": serviceName,
		"env":     config.EnvDevelopment,
	})

	Component("userlist").Info("page loaded")

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "userlist", last.Data["component"])
	assert.Equal(t, serviceName, last.Data["service"])
}
