// Package history records policy operations and state transitions so
// operators can answer "who toggled what, when, and did it work".
//
// # Stores
//
// MemoryStore keeps a bounded ring of records in process and is the
// default backend. SQLiteStore persists records to a SQLite database with
// WAL mode and schema versioning; FromConfig selects between them. List
// returns newest-first and accepts a Filter narrowing by policy name and
// time range.
//
// # Recording
//
// Recorder writes records through an async buffered channel so recording
// never blocks or fails a policy operation. Its RecordExecution method
// matches the executor's recorder hook and can be wired directly:
//
//	store, err := history.FromConfig(&cfg.History)
//	if err != nil {
//		return err
//	}
//	recorder := history.NewRecorder(store)
//	defer recorder.Close()
//
//	exec := usecase.New(&cfg.Executor, usecase.WithRecorder(recorder.RecordExecution))
//
// When the store rejects a write or the buffer is full the record is
// logged and dropped.
//
// # Retention
//
// The retention subpackage prunes old records on a cron schedule, first
// by age and then down to a configured record cap.
package history
