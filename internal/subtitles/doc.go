// Package subtitles locates auxiliary subtitle files for media whose own
// container carries no usable subtitle track.
//
// The configured source is either a single subtitle file, used for every
// input, or a directory searched for an entry carrying the same SxxEyy token
// as the media file. A matching directory entry contributes all of its files.
package subtitles
