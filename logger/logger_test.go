package logger

import (
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFormatter(t *testing.T) {
	ts := time.Date(2020, 3, 4, 5, 6, 7, 8000000, time.UTC)
	entry := &log.Entry{
		Time:    ts,
		Level:   log.WarnLevel,
		Message: "flush failed",
		Data: log.Fields{
			"sink":  "graphite",
			"err":   errors.New("connection refused"),
			"count": 3,
			"empty": "",
		},
	}

	cases := []struct {
		name string
		f    TextFormatter
		exp  string
	}{
		{
			"default",
			TextFormatter{},
			`2020-03-04 05:06:07.008 [WARNING] flush failed count=3 empty="" err="connection refused" sink=graphite` + "\n",
		},
		{
			"no timestamp with module",
			TextFormatter{DisableTimestamp: true, ModuleName: "stats"},
			`[WARNING] [stats] flush failed count=3 empty="" err="connection refused" sink=graphite` + "\n",
		},
		{
			"custom timestamp",
			TextFormatter{TimestampFormat: time.RFC3339},
			`2020-03-04T05:06:07Z [WARNING] flush failed count=3 empty="" err="connection refused" sink=graphite` + "\n",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := c.f.Format(entry)
			require.NoError(t, err)
			assert.Equal(t, c.exp, string(out))
		})
	}
}

func TestNeedsQuoting(t *testing.T) {
	assert.False(t, needsQuoting("host-1.example_org:2003"))
	assert.True(t, needsQuoting(""))
	assert.True(t, needsQuoting("a b"))
	assert.True(t, needsQuoting("name;k=v"))
}

func TestSetup(t *testing.T) {
	origLevel := log.GetLevel()
	defer log.SetLevel(origLevel)

	require.NoError(t, Setup("debug"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	err := Setup("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"loud"`)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}
