// Package logging provides structured logging for the xenstore daemon.
//
// # Creating a Logger
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "/var/log/xenstore.log",
//	})
//
// For tests, use a no-op logger:
//
//	logger := logging.NewNop()
//
// # Structured Logging
//
// Add key-value pairs to log entries:
//
//	logger.Info("write accepted",
//	    "domid", 7,
//	    "path", "/local/domain/7/name",
//	)
//
// Derived loggers share the output of their parent:
//
//	reqLogger := logger.WithRequestID(logging.GenerateRequestID())
//	domLogger := reqLogger.WithFields("domid", 7)
//
// # Output Formats
//
// Text format, remaining fields sorted by key:
//
//	2026-02-18T10:30:00Z [info] write accepted domid=7 path=/local/domain/7/name
//
// JSON format:
//
//	{"domid":7,"level":"info","msg":"write accepted","path":"/local/domain/7/name","ts":"2026-02-18T10:30:00Z"}
package logging
