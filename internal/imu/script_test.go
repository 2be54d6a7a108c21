package imu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScriptSourceReplaysThenRepeatsLast(t *testing.T) {
	a := RawSample{GX: 1}
	b := RawSample{GX: 2}
	src := NewScriptSource(a, b)

	got, err := src.ReadSample()
	require.NoError(t, err)
	require.Equal(t, a, got)

	got, err = src.ReadSample()
	require.NoError(t, err)
	require.Equal(t, b, got)

	for i := 0; i < 3; i++ {
		got, err = src.ReadSample()
		require.NoError(t, err)
		require.Equal(t, b, got)
	}
	require.Equal(t, 5, src.Reads())
}

func TestScriptSourceFailAt(t *testing.T) {
	src := NewScriptSource(RawSample{GX: 1})
	src.FailAt = 2

	for i := 0; i < 2; i++ {
		_, err := src.ReadSample()
		require.NoError(t, err)
	}
	_, err := src.ReadSample()
	require.Error(t, err)
}

func TestScriptSourceConnectAndTemperature(t *testing.T) {
	src := NewScriptSource(RawSample{})
	require.NoError(t, src.Connect())
	require.Equal(t, byte(whoAmILSM6DS3), src.DeviceID())

	temp, err := src.ReadTemperature()
	require.NoError(t, err)
	require.Equal(t, 25.0, temp)

	src.TempErr = errors.New("nope")
	_, err = src.ReadTemperature()
	require.Error(t, err)
}
