package blackd

import "strconv"

// Header names understood by blackd.
const (
	HeaderProtocolVersion         = "X-Protocol-Version"
	HeaderFastOrSafe              = "X-Fast-Or-Safe"
	HeaderLineLength              = "X-Line-Length"
	HeaderPythonVariant           = "X-Python-Variant"
	HeaderSkipStringNormalization = "X-Skip-String-Normalization"
	HeaderBlackVersion            = "X-Black-Version"
)

const (
	protocolVersion = "1"

	// StatusConnectionFailed marks a Response for which no HTTP status was
	// ever received. It never collides with a real status code.
	StatusConnectionFailed = -1

	// DefaultLineLength matches black's own default.
	DefaultLineLength = 88
)

// Options are the formatting knobs forwarded to blackd as headers.
type Options struct {
	Pyi                     bool
	LineLength              int
	FastMode                bool
	SkipStringNormalization bool
	// TargetVersions is sent verbatim, e.g. "py38,py39". Ignored when Pyi is set.
	TargetVersions string
}

// Request is a single reformat call. It is built fresh for every call and
// never modified afterwards.
type Request struct {
	// Endpoint is the daemon URL for this call. Empty uses the client's
	// base URL.
	Endpoint string
	Source   string
	Options
}

// Response is the status/body pair returned by blackd. StatusCode is
// StatusConnectionFailed when the daemon could not be reached, in which case
// Body carries the failure reason.
type Response struct {
	StatusCode int
	Body       string
}

// Failed reports whether the call never produced an HTTP status.
func (r Response) Failed() bool {
	return r.StatusCode == StatusConnectionFailed
}

// Connectivity is the result of a connection probe. Detail holds the daemon
// version when Reachable, otherwise a human readable reason.
type Connectivity struct {
	Reachable bool
	Detail    string
	// Endpoint is the URL that was probed.
	Endpoint string
}

// headers renders the options into the header set blackd expects.
func (o Options) headers() map[string]string {
	mode := "safe"
	if o.FastMode {
		mode = "fast"
	}
	lineLength := o.LineLength
	if lineLength <= 0 {
		lineLength = DefaultLineLength
	}

	h := map[string]string{
		HeaderProtocolVersion: protocolVersion,
		HeaderFastOrSafe:      mode,
		HeaderLineLength:      strconv.Itoa(lineLength),
	}
	switch {
	case o.Pyi:
		h[HeaderPythonVariant] = "pyi"
	case o.TargetVersions != "":
		h[HeaderPythonVariant] = o.TargetVersions
	}
	if o.SkipStringNormalization {
		h[HeaderSkipStringNormalization] = "yes"
	}
	return h
}
