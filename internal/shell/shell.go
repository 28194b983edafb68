package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KilimcininKorOglu/xenstore/internal/dump"
	"github.com/KilimcininKorOglu/xenstore/internal/errno"
	"github.com/KilimcininKorOglu/xenstore/internal/logging"
	"github.com/KilimcininKorOglu/xenstore/internal/metrics"
	"github.com/KilimcininKorOglu/xenstore/internal/store"
)

// errUsage marks a malformed request line.
var errUsage = fmt.Errorf("%w: malformed request", store.ErrInvalidArgument)

// Options configures a Shell.
type Options struct {
	// Domain is the initial caller domain.
	Domain uint32
	// Compression is the default compression for export.
	Compression dump.CompressionTag
	// Logger receives one entry per request. nil disables logging.
	Logger logging.Logger
	// Metrics, when set, backs the "stats" request.
	Metrics *metrics.Metrics
}

// Reply is the outcome of one request. A nil Lines means plain success.
type Reply struct {
	Lines []string
	Err   error
}

// String renders the reply the way it is written to the output.
func (r Reply) String() string {
	if r.Err != nil {
		return "ERR " + errno.Name(r.Err)
	}
	if r.Lines == nil {
		return "OK"
	}
	return strings.Join(r.Lines, "\n")
}

// Shell runs requests against one store.
type Shell struct {
	store       *store.Store
	domid       uint32
	compression dump.CompressionTag
	logger      logging.Logger
	metrics     *metrics.Metrics
}

// New creates a Shell over s.
func New(s *store.Store, opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Shell{
		store:       s,
		domid:       opts.Domain,
		compression: opts.Compression,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

// Domain returns the current caller domain.
func (sh *Shell) Domain() uint32 {
	return sh.domid
}

// Run executes every request read from r and writes the replies to w.
// prompt, when not empty, is written before each request. Blank lines and
// lines starting with '#' are skipped. It returns the number of requests
// that failed.
func (sh *Shell) Run(r io.Reader, w io.Writer, prompt string) (int, error) {
	failed := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		if prompt != "" {
			fmt.Fprint(w, prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		reply := sh.Handle(line)
		if reply.Err != nil {
			failed++
		}
		if _, err := fmt.Fprintln(w, reply.String()); err != nil {
			return failed, err
		}
	}
	if prompt != "" {
		fmt.Fprintln(w)
	}
	return failed, scanner.Err()
}

// Handle executes a single request line.
func (sh *Shell) Handle(line string) Reply {
	logger := sh.logger.WithRequestID(logging.GenerateRequestID())

	verb, rest := cut(line)
	reply := sh.dispatch(verb, rest)

	if reply.Err != nil {
		logger.Info("request failed", "domid", sh.domid, "verb", verb, "errno", errno.Name(reply.Err), "error", reply.Err)
	} else {
		logger.Debug("request", "domid", sh.domid, "verb", verb)
	}
	return reply
}

func (sh *Shell) dispatch(verb, args string) Reply {
	switch verb {
	case "read":
		path, err := oneArg(args)
		if err != nil {
			return Reply{Err: err}
		}
		value, err := sh.store.Read(sh.domid, path)
		if err != nil {
			return Reply{Err: err}
		}
		return Reply{Lines: []string{string(value)}}

	case "write":
		path, value := cut(args)
		if path == "" {
			return Reply{Err: errUsage}
		}
		return Reply{Err: sh.store.Write(sh.domid, path, []byte(value))}

	case "mkdir":
		path, err := oneArg(args)
		if err != nil {
			return Reply{Err: err}
		}
		return Reply{Err: sh.store.Mkdir(sh.domid, path)}

	case "rm":
		path, err := oneArg(args)
		if err != nil {
			return Reply{Err: err}
		}
		return Reply{Err: sh.store.Remove(sh.domid, path)}

	case "directory", "ls":
		path, err := oneArg(args)
		if err != nil {
			return Reply{Err: err}
		}
		_, names, err := sh.store.Directory(sh.domid, path)
		if err != nil {
			return Reply{Err: err}
		}
		return Reply{Lines: names}

	case "generation":
		path, err := oneArg(args)
		if err != nil {
			return Reply{Err: err}
		}
		gen, _, err := sh.store.Directory(sh.domid, path)
		if err != nil {
			return Reply{Err: err}
		}
		return Reply{Lines: []string{strconv.FormatUint(gen, 10)}}

	case "tree":
		path, err := oneArg(args)
		if err != nil {
			return Reply{Err: err}
		}
		return sh.tree(path)

	case "digest":
		path, err := oneArg(args)
		if err != nil {
			return Reply{Err: err}
		}
		d, err := sh.store.Digest(sh.domid, path)
		if err != nil {
			return Reply{Err: err}
		}
		return Reply{Lines: []string{d.String()}}

	case "stat":
		stats := sh.store.Stats()
		return Reply{Lines: []string{
			fmt.Sprintf("nodes %d", stats.Nodes),
			fmt.Sprintf("generation %d", stats.RootGeneration),
			fmt.Sprintf("snapshots %d", stats.Snapshots),
			fmt.Sprintf("domain %d", sh.domid),
		}}

	case "stats":
		return sh.stats()

	case "domain":
		id, err := strconv.ParseUint(strings.TrimSpace(args), 10, 32)
		if err != nil {
			return Reply{Err: errUsage}
		}
		sh.domid = uint32(id)
		return Reply{}

	case "export":
		return sh.export(strings.Fields(args))

	case "import":
		file, err := oneArg(args)
		if err != nil {
			return Reply{Err: err}
		}
		return sh.importFile(file)

	case "transaction_start":
		_, err := sh.store.TransactionStart(sh.domid)
		return Reply{Err: err}
	case "transaction_end":
		return Reply{Err: sh.store.TransactionEnd(sh.domid, 0, true)}
	case "watch":
		path, token := cut(args)
		return Reply{Err: sh.store.Watch(sh.domid, path, token, nil)}
	case "unwatch":
		path, token := cut(args)
		return Reply{Err: sh.store.Unwatch(sh.domid, path, token)}
	case "reset_watches":
		return Reply{Err: sh.store.ResetWatches(sh.domid)}
	case "get_perms":
		_, err := sh.store.GetPerms(sh.domid, strings.TrimSpace(args))
		return Reply{Err: err}
	case "set_perms":
		path, perms := cut(args)
		return Reply{Err: sh.store.SetPerms(sh.domid, path, strings.Fields(perms))}

	default:
		return Reply{Err: fmt.Errorf("%w: unknown request %q", store.ErrInvalidArgument, verb)}
	}
}

func (sh *Shell) tree(path string) Reply {
	var lines []string
	err := sh.store.Visit(sh.domid, path, func(p string, n *store.Node) error {
		lines = append(lines, fmt.Sprintf("%s = %q", p, n.Content()))
		return nil
	})
	if err != nil {
		return Reply{Err: err}
	}
	return Reply{Lines: lines}
}

func (sh *Shell) stats() Reply {
	if sh.metrics == nil {
		return Reply{Err: store.ErrUnsupported}
	}
	samples, err := sh.metrics.Counts()
	if err != nil {
		return Reply{Err: err}
	}
	lines := make([]string, 0, len(samples))
	for _, s := range samples {
		lines = append(lines, fmt.Sprintf("%s %s %.0f", s.Op, s.Result, s.Count))
	}
	return Reply{Lines: lines}
}

// export FILE [COMPRESSION] [PATH]
func (sh *Shell) export(args []string) Reply {
	if len(args) < 1 || len(args) > 3 {
		return Reply{Err: errUsage}
	}
	file := args[0]
	tag := sh.compression
	if len(args) >= 2 {
		parsed, err := dump.ParseCompressionTag(args[1])
		if err != nil {
			return Reply{Err: fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)}
		}
		tag = parsed
	}
	path := "/"

	snap := sh.store.Snapshot()
	defer snap.Close()

	var (
		doc *store.Document
		err error
	)
	if len(args) == 3 {
		resolved, rerr := store.ResolvePath(args[2], sh.domid, sh.store.Limits())
		if rerr != nil {
			return Reply{Err: rerr}
		}
		path = resolved.String()
		doc, err = snap.Export(sh.domid, path)
	} else {
		doc, err = snap.ExportAll()
	}
	if err != nil {
		return Reply{Err: err}
	}
	digest := doc.Digest()

	used, err := dump.WriteFile(file, &dump.Image{
		Path:   path,
		Nodes:  uint64(doc.Count()),
		Digest: digest[:],
		Root:   doc,
	}, tag)
	if err != nil {
		return Reply{Err: err}
	}
	return Reply{Lines: []string{fmt.Sprintf("%d nodes %s %s", doc.Count(), used, digest)}}
}

func (sh *Shell) importFile(file string) Reply {
	img, err := dump.ReadFile(file)
	if err == nil {
		err = img.Verify()
	}
	if err != nil {
		if isBadDump(err) {
			return Reply{Err: fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)}
		}
		return Reply{Err: err}
	}
	if img.Path != "/" {
		return Reply{Err: fmt.Errorf("%w: dump of %s is not a whole tree", store.ErrInvalidArgument, img.Path)}
	}
	if err := sh.store.Import(sh.domid, img.Root); err != nil {
		return Reply{Err: err}
	}
	return Reply{Lines: []string{fmt.Sprintf("%d nodes", sh.store.NodeCount())}}
}

// isBadDump reports whether err means the file is not a usable dump.
func isBadDump(err error) bool {
	for _, target := range []error{dump.ErrBadMagic, dump.ErrBadVersion, dump.ErrTruncated, dump.ErrCorrupt, dump.ErrMismatch} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// cut splits off the first whitespace-separated word.
func cut(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

func oneArg(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return "", errUsage
	}
	return fields[0], nil
}
