package flog

// process runs the write path for one accepted record: rotate the target if
// it grew past the limit, then append the record. Each step reports its own
// failures; nothing is returned to the caller.
func (l *Logger) process(record string) {
	l.rotateIfNeeded()

	if err := appendRecord(l.path, []byte(record)); err != nil {
		l.report(err)
	}
}
