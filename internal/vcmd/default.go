package vcmd

// Default returns a *Registry pre-populated with the built-in set
// spec.md §4.3 names. Callers needing a customized set start from
// NewRegistry and Register selectively instead.
func Default() *Registry {
	r := NewRegistry()

	r.Register("cd", Descriptor{Invoke: cdHandler})
	r.Register("echo", Descriptor{Invoke: echoHandler})
	r.Register("cat", Descriptor{Invoke: catHandler})
	r.Register("head", Descriptor{Invoke: headHandler})
	r.Register("tail", Descriptor{Invoke: tailHandler})
	r.Register("sort", Descriptor{Invoke: sortHandler})
	r.Register("uniq", Descriptor{Invoke: uniqHandler})
	r.Register("wc", Descriptor{Invoke: wcHandler})
	r.Register("grep", Descriptor{Invoke: grepHandler})
	r.Register("printf", Descriptor{Invoke: printfHandler})
	r.Register("sleep", Descriptor{Invoke: sleepHandler})
	r.Register("yes", Descriptor{Streaming: yesStreamHandler})
	r.Register("true", Descriptor{Invoke: trueHandler})
	r.Register("false", Descriptor{Invoke: falseHandler})
	r.Register("exit", Descriptor{Invoke: exitHandler})
	r.Register("mkdir", Descriptor{Invoke: mkdirHandler})
	r.Register("touch", Descriptor{Invoke: touchHandler})
	r.Register("rm", Descriptor{Invoke: rmHandler})
	r.Register("ls", Descriptor{Invoke: lsHandler})
	r.Register("pwd", Descriptor{Invoke: pwdHandler})
	r.Register("hostname", Descriptor{Invoke: hostnameHandler})
	r.Register("whoami", Descriptor{Invoke: whoamiHandler})
	r.Register("date", Descriptor{Invoke: dateHandler})

	return r
}
