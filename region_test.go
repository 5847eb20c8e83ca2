package stm

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import s "github.com/prataprc/gosettings"

func testsettings() s.Settings {
	return s.Settings{
		"align": int64(8),
		"size0": int64(64),
	}
}

func TestNewRegion(t *testing.T) {
	r := NewRegion(testsettings())
	defer r.Close()

	assert.Equal(t, int64(8), r.Align())
	assert.Equal(t, int64(64), r.Size())
	assert.Equal(t, r.start, r.Start())
}

func TestRegionBadAlign(t *testing.T) {
	setts := testsettings()
	setts["align"] = int64(3)
	assert.Panics(t, func() { NewRegion(setts) })
}

func TestRegionBadSize(t *testing.T) {
	setts := testsettings()
	setts["size0"] = int64(5)
	assert.Panics(t, func() { NewRegion(setts) })
}

func TestRegionCloseBusyPanics(t *testing.T) {
	r := NewRegion(testsettings())
	txn := r.Begin(false)
	assert.Panics(t, func() { r.Close() })
	require.True(t, txn.End())
	r.Close()
}
