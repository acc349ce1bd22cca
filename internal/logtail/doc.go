// Package logtail reads and renders postboard's JSON log file.
//
// # Reading Log Files
//
// Read extracts the last maxLines from a file with a ring buffer of size
// maxLines: one sequential pass, O(maxLines) memory, lines returned in file
// order. A non-positive maxLines returns the whole file. A missing file
// yields nil, nil so `postboard logs` works before the first run.
//
//	lines, err := logtail.Read(cfg.LogPath, 200)
//
// # Decoding
//
// Parse decodes one zap JSON line into an Entry (time, level, logger,
// message and the remaining fields). Lines that are not JSON, such as a
// panic trace appended by the runtime, are kept as info-level entries whose
// message is the raw text.
//
// Filter combines both steps and drops entries below a minimum level:
//
//	for _, e := range logtail.Filter(lines, zapcore.WarnLevel) {
//		fmt.Println(logtail.Colorize(e))
//	}
//
// # Rendering
//
// Entry.String produces a plain single line:
//
//	2026-10-18T09:00:00.000Z WARN [postboard.session] operation failed kind=server op=delete
//
// Colorize renders the same layout with lipgloss colors per level:
//
//   - Timestamps: dim gray
//   - DEBUG: sky blue, INFO: green, WARN: gold, ERROR and above: red
//   - Logger names: cornflower blue
//   - Fields: dark gray
//
// Lipgloss degrades to plain text when the output is not a color terminal,
// so piped output stays greppable.
package logtail
