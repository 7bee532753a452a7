// Package errkind holds the ftag kinds used to classify metronome errors.
package errkind

import "github.com/Southclaws/fault/ftag"

const (
	// InvalidConfig marks values rejected at a mutator or config boundary.
	InvalidConfig ftag.Kind = "INVALID_CONFIG"

	// TimerUnavailable means the timer source could not run, so playback cannot start.
	TimerUnavailable ftag.Kind = "TIMER_UNAVAILABLE"

	// AudioUnavailable means no audio backend could be opened.
	AudioUnavailable ftag.Kind = "AUDIO_UNAVAILABLE"

	// ScheduleFailed marks a tone the engine refused. These are logged, never retried.
	ScheduleFailed ftag.Kind = "SCHEDULE_FAILED"
)
