package videos

import "errors"

var (
	// ErrForbidden indicates the caller does not own the video.
	ErrForbidden = errors.New("video belongs to another user")
	// ErrAssetDelete indicates a remote asset could not be removed; the record is kept.
	ErrAssetDelete = errors.New("remote asset deletion failed")
	// ErrUnreadableMedia indicates the uploaded file could not be probed as a video.
	ErrUnreadableMedia = errors.New("uploaded file is not a readable video")
	// ErrReaperBusy indicates the orphan queue is full.
	ErrReaperBusy = errors.New("asset reaper queue full")

	errReaperClosed = errors.New("asset reaper closed")
)
