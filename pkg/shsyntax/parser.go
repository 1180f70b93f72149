package shsyntax

import "strings"

// Parse tokenizes and parses a full command string into a Sequence.
// On a lexing/grammar error it returns a *ParseError; spec.md directs
// callers to treat that as "fall back to a real shell", not as a
// terminal failure.
func Parse(src string) (*Sequence, error) {
	p := &parser{lex: newLexer(src), src: src}
	p.advance()
	seq := p.parseSequence()
	if p.lex.err != nil {
		return nil, p.lex.err
	}
	if p.err != nil {
		return nil, p.err
	}
	if p.tok.kind != tokEOF {
		return nil, &ParseError{Msg: "unexpected token '" + p.tok.text + "'", Pos: p.tok.pos}
	}
	return seq, nil
}

type parser struct {
	lex *lexer
	src string
	tok token
	err *ParseError
}

func (p *parser) advance() {
	if p.lex.err != nil {
		p.tok = token{kind: tokEOF}
		return
	}
	p.tok = p.lex.next()
}

func (p *parser) fail(msg string) {
	if p.err == nil {
		p.err = &ParseError{Msg: msg, Pos: p.tok.pos}
	}
}

// parseSequence parses a ';'/'&&'/'||'-joined list of pipelines and
// subshells until EOF or an unmatched ')'.
func (p *parser) parseSequence() *Sequence {
	seq := &Sequence{}
	first := p.parseSeqElement()
	if first == nil {
		return seq
	}
	seq.Parts = append(seq.Parts, SeqPart{Op: OpSeq, Node: first})

	for {
		var op SeqOp
		switch p.tok.kind {
		case tokSemi:
			op = OpSeq
		case tokAndAnd:
			op = OpAnd
		case tokOrOr:
			op = OpOr
		default:
			return seq
		}
		p.advance()
		if p.tok.kind == tokEOF || p.tok.kind == tokRParen {
			// Trailing ';' is allowed (bash-like); trailing && / || is not.
			if op == OpSeq {
				return seq
			}
			p.fail("expected command after operator")
			return seq
		}
		elem := p.parseSeqElement()
		if elem == nil {
			p.fail("expected command")
			return seq
		}
		seq.Parts = append(seq.Parts, SeqPart{Op: op, Node: elem})
	}
}

// parseSeqElement parses one subshell or pipeline.
func (p *parser) parseSeqElement() Node {
	if p.tok.kind == tokLParen {
		p.advance()
		inner := p.parseSequence()
		if p.tok.kind != tokRParen {
			p.fail("expected ')'")
			return nil
		}
		p.advance()
		return &Subshell{Body: inner}
	}
	return p.parsePipeline()
}

// parsePipeline parses a '|'-joined list of Commands.
func (p *parser) parsePipeline() Node {
	first := p.parseCommand()
	if first == nil {
		return nil
	}
	pipe := &Pipeline{Stages: []*Command{first}}
	for p.tok.kind == tokPipe {
		p.advance()
		cmd := p.parseCommand()
		if cmd == nil {
			p.fail("expected command after '|'")
			return pipe
		}
		pipe.Stages = append(pipe.Stages, cmd)
	}
	return pipe
}

// parseCommand parses a program name, its arguments, and any
// redirections, stopping at a pipeline/sequence operator or ')'.
func (p *parser) parseCommand() *Command {
	if p.tok.kind != tokWord {
		return nil
	}
	cmd := &Command{Name: p.tok.text}
	p.advance()

	for {
		switch p.tok.kind {
		case tokWord:
			cmd.Args = append(cmd.Args, p.tok.text)
			p.advance()
		case tokRedirOut, tokRedirAppend, tokRedirIn, tokRedirErr, tokRedirErrAppend, tokRedirBoth:
			kind := redirKindFor(p.tok.kind)
			p.advance()
			if p.tok.kind != tokWord {
				p.fail("expected redirection target")
				return cmd
			}
			cmd.Redirections = append(cmd.Redirections, Redirection{Kind: kind, Target: p.tok.text})
			p.advance()
		case tokRedirErrToOut:
			cmd.Redirections = append(cmd.Redirections, Redirection{Kind: RedirErrToOut})
			p.advance()
		case tokHeredoc:
			p.advance()
			if p.tok.kind != tokWord {
				p.fail("expected heredoc tag")
				return cmd
			}
			tag := p.tok.text
			rawTag := strings.ContainsAny(tag, `'"`)
			tag = strings.Trim(tag, `'"`)
			body, ok := p.consumeHeredocBody(tag)
			if !ok {
				p.fail("unterminated heredoc")
				return cmd
			}
			cmd.Redirections = append(cmd.Redirections, Redirection{
				Kind: RedirHeredoc, HeredocTag: tag, HeredocRaw: rawTag, Body: body,
			})
			p.advance()
		default:
			return cmd
		}
	}
}

func redirKindFor(k tokenKind) RedirKind {
	switch k {
	case tokRedirOut:
		return RedirOutTrunc
	case tokRedirAppend:
		return RedirOutAppend
	case tokRedirIn:
		return RedirIn
	case tokRedirErr:
		return RedirErrTrunc
	case tokRedirErrAppend:
		return RedirErrAppend
	case tokRedirBoth:
		return RedirBoth
	default:
		return RedirOutTrunc
	}
}

// consumeHeredocBody scans raw source starting at the lexer's current
// position for lines up to and including a line equal to tag,
// returning the body (excluding the terminator line) and advancing the
// lexer past it.
func (p *parser) consumeHeredocBody(tag string) (string, bool) {
	rest := p.src[p.lex.pos:]
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return "", false
	}
	offset := nl + 1 // skip past the newline ending the line containing the tag word
	body := rest[offset:]

	var out []string
	for {
		lineEnd := strings.IndexByte(body, '\n')
		var line string
		if lineEnd < 0 {
			line = body
		} else {
			line = body[:lineEnd]
		}
		if line == tag {
			consumed := offset + len(line)
			if lineEnd >= 0 {
				consumed++ // include the terminator line's own newline
			}
			p.lex.pos += consumed
			return strings.Join(out, "\n"), true
		}
		out = append(out, line)
		if lineEnd < 0 {
			return "", false
		}
		body = body[lineEnd+1:]
		offset += lineEnd + 1
	}
}
