// Package encoding turns an argument plan into an ffmpeg invocation, runs it
// and installs the result.
//
// BuildCommand assembles the full argument vector: global options, the
// primary and auxiliary inputs, the serialized plan fragments, encoder tuning
// and a Matroska output. Runner executes the command while streaming ffmpeg's
// machine-readable progress, and Finalize moves the temporary output into
// place, keeping the replaced source as "<name>.old".
package encoding
