// Package coordinator is the message schema for the optional remote
// agent/coordinator pair: a Ping and a Compile request/response shape,
// advertised for compatibility with that external daemon pair. Nothing
// in this tree dials, listens, or serializes these types -- the
// coordinator and agent processes themselves are out of scope (SPEC
// §1), and the local compile path (driver.Compile) never imports this
// package. Trimmed from the teacher's cluster/message.go, which wires
// an equivalent message set onto a QUIC tunnel; that transport and the
// rest of its message set (task dispatch, file-access reporting, peer
// discovery) belong to distributed build sharing, which is out of scope
// here, so only the two RPCs the spec names are kept.
package coordinator

// Ping is the liveness check a coordinator sends an agent (and an agent
// echoes back); present for interface compatibility only.
type Ping struct{}

// Pong is Ping's reply.
type Pong struct{}

// PrecompiledHeader describes the PCH an agent should substitute into a
// Compile request instead of recompiling it locally.
type PrecompiledHeader struct {
	Hash string
	Data []byte
}

// CompileRequest is what a coordinator would hand an agent: the
// toolchain to invoke, its argv, the already-preprocessed translation
// unit, and the PCH it depends on, if any.
type CompileRequest struct {
	Toolchain        string
	Argv             []string
	PreprocessedData []byte
	Precompiled      *PrecompiledHeader
}

// OutputInfo is a successful CompileRequest's result: the compiler's
// exit status, its captured stdout/stderr, and the object (and PCH, if
// produced) bytes.
type OutputInfo struct {
	Status  int32
	Stdout  []byte
	Stderr  []byte
	Content map[string][]byte
}

// ErrorInfo is a failed CompileRequest's result. Its retryable-vs-fatal
// semantics are left undefined in the schema this is modeled on
// (cluster/message.go's own error envelopes are similarly
// under-specified), so this stays an untyped bag rather than guessing
// at a taxonomy no caller exists yet to exercise.
type ErrorInfo map[string]string

// CompileResult is exactly one of OutputInfo or ErrorInfo.
type CompileResult struct {
	Output *OutputInfo
	Error  ErrorInfo
}
