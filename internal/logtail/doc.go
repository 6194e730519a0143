// Package logtail reads the end of the dashboard log for the event pane.
//
// Read returns the last N lines of a file with a ring buffer, so memory stays
// O(N) regardless of file size and lines come back in chronological order.
// A missing file is not an error: the dashboard may start before anything
// has been logged.
//
// Parse splits a logrus text line (time="..." level=info msg="..." k=v)
// into an Entry. Lines that are not key=value shaped, such as a panic trace,
// are kept verbatim as the message.
//
//	entries, err := logtail.Tail(cfg.LogFile, 200)
//	if err != nil {
//		return err
//	}
//	for _, e := range entries {
//		fmt.Println(e.Level, e.Message)
//	}
package logtail
