package chatrelay

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

const (
	minTableSize = 1024
	maxTableSize = 65536
)

// fdLimit returns the number of connection table slots: the soft limit of open
// files, clamped so that a huge or unlimited rlimit does not blow up the table.
func fdLimit() int {
	noRLimit := &unix.Rlimit{}
	err := unix.Getrlimit(unix.RLIMIT_NOFILE, noRLimit)
	if err != nil {
		log.Error().Msgf("error occur while getting OS limit of open files: %+v", err)
		return minTableSize
	}
	if noRLimit.Cur < minTableSize {
		return minTableSize
	}
	if noRLimit.Cur > maxTableSize {
		return maxTableSize
	}
	return int(noRLimit.Cur)
}
