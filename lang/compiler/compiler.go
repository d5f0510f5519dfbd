package compiler

import (
	"fmt"
	"strconv"

	"github.com/loxlang/lox/lang/scanner"
	"github.com/loxlang/lox/lang/token"
)

// Precedence orders the binding power of operators from loosest to
// tightest, exactly the ladder the Pratt parser climbs in parsePrecedence.
type precedence uint8

//nolint:revive
const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(p *parser, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

// Compile compiles Lox source into the top-level Funcode (the implicit
// script function of arity 0), or returns a non-nil error listing every
// compile error encountered. Following §4.3, this is a single pass: tokens
// are consumed once, locals/upvalues are resolved as they are declared, and
// bytecode is emitted directly, with no intervening AST.
func Compile(source []byte) (*Funcode, error) {
	p := &parser{}
	p.scan.Init(source, p.scanError)

	fc := &fcomp{
		fnType: typeScript,
		fn:     &Funcode{Name: ""},
	}
	fc.locals = append(fc.locals, local{name: "", depth: 0})
	p.current = fc

	p.advance()
	for !p.match(token.EOF) {
		p.declaration()
	}
	fn := p.endFunction()

	if p.hadError {
		return nil, &CompileError{Errors: p.errs}
	}
	return fn, nil
}

// CompileError collects every compile error reported during compilation.
// Errors raised while the parser is in panic mode (after a first error and
// before synchronize reaches a statement boundary) are not recorded.
type CompileError struct {
	Errors []string
}

func (e *CompileError) Error() string {
	s := ""
	for i, msg := range e.Errors {
		if i > 0 {
			s += "\n"
		}
		s += msg
	}
	return s
}

// fcomp holds the compiler state for one function body currently being
// compiled: its locals, its resolved upvalues, and a link to the function
// compilation it is nested within (nil at the top level). The chain of
// fcomps is an explicit stack rather than recursion on the Go call stack
// only incidentally — parsePrecedence does recurse on the Go stack for
// nested expressions, but function NESTING is represented by this
// explicit `enclosing` chain so that a future GC root-walk over
// in-progress compilations (§4.6) has something concrete to traverse.
type fcomp struct {
	enclosing *fcomp
	fn        *Funcode
	fnType    fnType

	locals     []local
	upvalues   []UpvalueRef
	scopeDepth int
}

type fnType uint8

const (
	typeFunction fnType = iota
	typeInitializer
	typeMethod
	typeScript
)

type local struct {
	name       string
	depth      int // -1 while declared but not yet initialized
	isCaptured bool
}

// classcomp tracks the class currently being compiled, independently of the
// fcomp stack (methods introduce their own fcomp nested under the class's
// scope), so `this` and `super` resolution can see whether they are
// syntactically inside a class and whether that class has a superclass.
type classcomp struct {
	enclosing     *classcomp
	hasSuperclass bool
}

type parser struct {
	scan scanner.Scanner

	previous token.Token
	current_ token.Token // renamed to avoid clash with parser.current (fcomp)

	hadError  bool
	panicMode bool
	errs      []string

	current *fcomp
	class   *classcomp
}

func (p *parser) scanError(line int, msg string) {
	p.errorAtLine(line, msg)
}

// --- token stream -----------------------------------------------------

func (p *parser) advance() {
	p.previous = p.current_
	for {
		p.current_ = p.scan.Scan()
		if p.current_.Kind != token.ILLEGAL {
			break
		}
		p.errorAtCurrent(p.current_.Lexeme)
	}
}

func (p *parser) check(k token.Kind) bool { return p.current_.Kind == k }

func (p *parser) match(k token.Kind) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(k token.Kind, msg string) {
	if p.current_.Kind == k {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

// --- error reporting and recovery --------------------------------------

func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.current_, msg) }
func (p *parser) error(msg string)          { p.errorAt(p.previous, msg) }

func (p *parser) errorAt(tok token.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true

	where := ""
	switch tok.Kind {
	case token.EOF:
		where = " at end"
	case token.ILLEGAL:
	default:
		where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	p.errs = append(p.errs, fmt.Sprintf("[line %d] Error%s: %s", tok.Line, where, msg))
	p.hadError = true
}

func (p *parser) errorAtLine(line int, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.errs = append(p.errs, fmt.Sprintf("[line %d] Error: %s", line, msg))
	p.hadError = true
}

// synchronize resumes parsing at the next statement boundary after a
// compile error, so that a single mistake does not cascade into a wall of
// spurious errors.
func (p *parser) synchronize() {
	p.panicMode = false

	for p.current_.Kind != token.EOF {
		if p.previous.Kind == token.SEMICOLON {
			return
		}
		switch p.current_.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// --- bytecode emission --------------------------------------------------

func (p *parser) chunk() *Funcode { return p.current.fn }

func (p *parser) emitByte(b byte) {
	p.chunk().addLine(p.previous.Line)
	p.chunk().Code = append(p.chunk().Code, b)
}

func (p *parser) emitOp(op Op) { p.emitByte(byte(op)) }

func (p *parser) emitOps(op Op, b byte) {
	p.emitOp(op)
	p.emitByte(b)
}

func (p *parser) emitLoop(loopStart int) {
	p.emitOp(OpLoop)
	offset := len(p.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		p.error("loop body too large")
	}
	p.emitByte(byte(offset >> 8))
	p.emitByte(byte(offset))
}

// emitJump emits a jump opcode with a placeholder 2-byte offset and returns
// the offset of the first placeholder byte, to be patched later.
func (p *parser) emitJump(op Op) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return len(p.chunk().Code) - 2
}

func (p *parser) patchJump(offset int) {
	jump := len(p.chunk().Code) - offset - 2
	if jump > 0xffff {
		p.error("too much code to jump over")
	}
	p.chunk().Code[offset] = byte(jump >> 8)
	p.chunk().Code[offset+1] = byte(jump)
}

func (p *parser) emitReturn() {
	if p.current.fnType == typeInitializer {
		p.emitOps(OpGetLocal, 0)
	} else {
		p.emitOp(OpNil)
	}
	p.emitOp(OpReturn)
}

// makeConstant appends v to the current function's constant pool and
// returns its index, reporting a compile error if the 256-entry limit
// (u8 operand) is exceeded.
func (p *parser) makeConstant(v any) byte {
	idx := p.chunk().addConstant(v)
	if idx > 0xff {
		p.error("too many constants in one chunk")
		return 0
	}
	return byte(idx)
}

func (p *parser) emitConstant(v any) {
	p.emitOps(OpConstant, p.makeConstant(v))
}

// endFunction finalizes the current fcomp's Funcode (emitting an implicit
// return) and pops back to the enclosing fcomp.
func (p *parser) endFunction() *Funcode {
	p.emitReturn()
	fn := p.current.fn
	fn.Upvalues = p.current.upvalues
	p.current = p.current.enclosing
	return fn
}

// --- scopes and locals ---------------------------------------------------

func (p *parser) beginScope() { p.current.scopeDepth++ }

func (p *parser) endScope() {
	p.current.scopeDepth--
	locs := p.current.locals
	for len(locs) > 0 && locs[len(locs)-1].depth > p.current.scopeDepth {
		if locs[len(locs)-1].isCaptured {
			p.emitOp(OpCloseUpvalue)
		} else {
			p.emitOp(OpPop)
		}
		locs = locs[:len(locs)-1]
	}
	p.current.locals = locs
}

func (p *parser) identifiersEqual(a, b string) bool { return a == b }

func (p *parser) addLocal(name string) {
	if len(p.current.locals) >= 256 {
		p.error("too many local variables in function")
		return
	}
	p.current.locals = append(p.current.locals, local{name: name, depth: -1})
}

func (p *parser) declareVariable() {
	if p.current.scopeDepth == 0 {
		return
	}
	name := p.previous.Lexeme
	locs := p.current.locals
	for i := len(locs) - 1; i >= 0; i-- {
		l := locs[i]
		if l.depth != -1 && l.depth < p.current.scopeDepth {
			break
		}
		if p.identifiersEqual(name, l.name) {
			p.error("already a variable with this name in this scope")
		}
	}
	p.addLocal(name)
}

func (p *parser) parseVariable(errMsg string) byte {
	p.consume(token.IDENT, errMsg)
	p.declareVariable()
	if p.current.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous.Lexeme)
}

func (p *parser) identifierConstant(name string) byte {
	return p.makeConstant(name)
}

func (p *parser) markInitialized() {
	if p.current.scopeDepth == 0 {
		return
	}
	p.current.locals[len(p.current.locals)-1].depth = p.current.scopeDepth
}

func (p *parser) defineVariable(global byte) {
	if p.current.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOps(OpDefGlobal, global)
}

func resolveLocal(fc *fcomp, name string) int {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			if fc.locals[i].depth == -1 {
				return -2 // sentinel: used before init, caller reports error
			}
			return i
		}
	}
	return -1
}

func addUpvalue(fc *fcomp, index byte, isLocal bool) int {
	for i, uv := range fc.upvalues {
		if int(uv.Index) == int(index) && uv.IsLocal == isLocal {
			return i
		}
	}
	if len(fc.upvalues) >= 256 {
		return -1
	}
	fc.upvalues = append(fc.upvalues, UpvalueRef{IsLocal: isLocal, Index: index})
	return len(fc.upvalues) - 1
}

// resolveUpvalue walks the chain of enclosing function compilations,
// creating upvalues at each level so that a deeply nested closure captures
// through every intermediate function, marking the captured local as such
// so endScope knows to close it rather than simply pop it.
func resolveUpvalue(p *parser, fc *fcomp, name string) int {
	if fc.enclosing == nil {
		return -1
	}
	if local := resolveLocal(fc.enclosing, name); local >= 0 {
		fc.enclosing.locals[local].isCaptured = true
		return addUpvalue(fc, byte(local), true)
	} else if local == -2 {
		p.error("can't read local variable in its own initializer")
		return -1
	}
	if up := resolveUpvalue(p, fc.enclosing, name); up >= 0 {
		return addUpvalue(fc, byte(up), false)
	}
	return -1
}

// --- declarations --------------------------------------------------------

func (p *parser) declaration() {
	switch {
	case p.match(token.CLASS):
		p.classDeclaration()
	case p.match(token.FUN):
		p.funDeclaration()
	case p.match(token.VAR):
		p.varDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *parser) classDeclaration() {
	p.consume(token.IDENT, "expect class name")
	className := p.previous.Lexeme
	nameConstant := p.identifierConstant(className)
	p.declareVariable()

	p.emitOps(OpClass, nameConstant)
	p.defineVariable(nameConstant)

	cc := &classcomp{enclosing: p.class}
	p.class = cc

	if p.match(token.LESS) {
		p.consume(token.IDENT, "expect superclass name")
		p.variable(false)
		if className == p.previous.Lexeme {
			p.error("a class can't inherit from itself")
		}

		p.beginScope()
		p.addLocal("super")
		p.defineVariable(0)

		p.namedVariable(className, false)
		p.emitOp(OpInherit)
		cc.hasSuperclass = true
	}

	p.namedVariable(className, false)
	p.consume(token.LBRACE, "expect '{' before class body")
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.method()
	}
	p.consume(token.RBRACE, "expect '}' after class body")
	p.emitOp(OpPop) // the class itself, pushed again above for method binding

	if cc.hasSuperclass {
		p.endScope()
	}
	p.class = cc.enclosing
}

func (p *parser) method() {
	p.consume(token.IDENT, "expect method name")
	name := p.previous.Lexeme
	constant := p.identifierConstant(name)

	t := typeMethod
	if name == "init" {
		t = typeInitializer
	}
	p.function(t, name)
	p.emitOps(OpMethod, constant)
}

func (p *parser) funDeclaration() {
	global := p.parseVariable("expect function name")
	p.markInitialized()
	p.function(typeFunction, p.previous.Lexeme)
	p.defineVariable(global)
}

func (p *parser) function(t fnType, name string) {
	fc := &fcomp{
		enclosing: p.current,
		fnType:    t,
		fn:        &Funcode{Name: name, IsInitializer: t == typeInitializer},
	}
	slot0 := ""
	if t != typeFunction && t != typeScript {
		slot0 = "this"
	}
	fc.locals = append(fc.locals, local{name: slot0, depth: 0})
	p.current = fc

	p.beginScope()
	p.consume(token.LPAREN, "expect '(' after function name")
	if !p.check(token.RPAREN) {
		for {
			p.current.fn.Arity++
			if p.current.fn.Arity > 255 {
				p.errorAtCurrent("can't have more than 255 parameters")
			}
			constant := p.parseVariable("expect parameter name")
			p.defineVariable(constant)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expect ')' after parameters")
	p.consume(token.LBRACE, "expect '{' before function body")
	p.block()

	fn := p.endFunction()
	idx := p.makeConstant(fn)
	p.emitOps(OpClosure, idx)
	for _, uv := range fn.Upvalues {
		if uv.IsLocal {
			p.emitByte(1)
		} else {
			p.emitByte(0)
		}
		p.emitByte(uv.Index)
	}
}

func (p *parser) varDeclaration() {
	global := p.parseVariable("expect variable name")
	if p.match(token.EQUAL) {
		p.expression()
	} else {
		p.emitOp(OpNil)
	}
	p.consume(token.SEMICOLON, "expect ';' after variable declaration")
	p.defineVariable(global)
}

// --- statements ------------------------------------------------------------

func (p *parser) statement() {
	switch {
	case p.match(token.PRINT):
		p.printStatement()
	case p.match(token.FOR):
		p.forStatement()
	case p.match(token.IF):
		p.ifStatement()
	case p.match(token.RETURN):
		p.returnStatement()
	case p.match(token.WHILE):
		p.whileStatement()
	case p.match(token.LBRACE):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *parser) block() {
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.RBRACE, "expect '}' after block")
}

func (p *parser) printStatement() {
	p.expression()
	p.consume(token.SEMICOLON, "expect ';' after value")
	p.emitOp(OpPrint)
}

func (p *parser) expressionStatement() {
	p.expression()
	p.consume(token.SEMICOLON, "expect ';' after expression")
	p.emitOp(OpPop)
}

func (p *parser) ifStatement() {
	p.consume(token.LPAREN, "expect '(' after 'if'")
	p.expression()
	p.consume(token.RPAREN, "expect ')' after condition")

	thenJump := p.emitJump(OpJumpIfFalse)
	p.emitOp(OpPop)
	p.statement()

	elseJump := p.emitJump(OpJump)
	p.patchJump(thenJump)
	p.emitOp(OpPop)

	if p.match(token.ELSE) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *parser) whileStatement() {
	loopStart := len(p.chunk().Code)
	p.consume(token.LPAREN, "expect '(' after 'while'")
	p.expression()
	p.consume(token.RPAREN, "expect ')' after condition")

	exitJump := p.emitJump(OpJumpIfFalse)
	p.emitOp(OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(OpPop)
}

func (p *parser) forStatement() {
	p.beginScope()
	p.consume(token.LPAREN, "expect '(' after 'for'")
	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.match(token.VAR):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := len(p.chunk().Code)
	exitJump := -1
	if !p.match(token.SEMICOLON) {
		p.expression()
		p.consume(token.SEMICOLON, "expect ';' after loop condition")
		exitJump = p.emitJump(OpJumpIfFalse)
		p.emitOp(OpPop)
	}

	if !p.match(token.RPAREN) {
		bodyJump := p.emitJump(OpJump)
		incrStart := len(p.chunk().Code)
		p.expression()
		p.emitOp(OpPop)
		p.consume(token.RPAREN, "expect ')' after for clauses")

		p.emitLoop(loopStart)
		loopStart = incrStart
		p.patchJump(bodyJump)
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(OpPop)
	}
	p.endScope()
}

func (p *parser) returnStatement() {
	if p.current.fnType == typeScript {
		p.error("can't return from top-level code")
	}
	if p.match(token.SEMICOLON) {
		p.emitReturn()
		return
	}
	if p.current.fnType == typeInitializer {
		p.error("can't return a value from an initializer")
	}
	p.expression()
	p.consume(token.SEMICOLON, "expect ';' after return value")
	p.emitOp(OpReturn)
}

// --- expressions (Pratt parser) --------------------------------------------

func (p *parser) expression() { p.parsePrecedence(precAssignment) }

func (p *parser) parsePrecedence(prec precedence) {
	p.advance()
	rule := rules[p.previous.Kind]
	if rule.prefix == nil {
		p.error("expect expression")
		return
	}
	canAssign := prec <= precAssignment
	rule.prefix(p, canAssign)

	for prec <= rules[p.current_.Kind].precedence {
		p.advance()
		rule := rules[p.previous.Kind]
		rule.infix(p, canAssign)
	}

	if canAssign && p.match(token.EQUAL) {
		p.error("invalid assignment target")
	}
}

func (p *parser) number(canAssign bool) {
	f, err := strconv.ParseFloat(p.previous.Lexeme, 64)
	if err != nil {
		p.error("invalid number literal")
		return
	}
	p.emitConstant(f)
}

func (p *parser) stringLit(canAssign bool) {
	p.emitConstant(p.previous.Lexeme)
}

func (p *parser) grouping(canAssign bool) {
	p.expression()
	p.consume(token.RPAREN, "expect ')' after expression")
}

func (p *parser) unary(canAssign bool) {
	opTok := p.previous.Kind
	p.parsePrecedence(precUnary)
	switch opTok {
	case token.BANG:
		p.emitOp(OpNot)
	case token.MINUS:
		p.emitOp(OpNegate)
	}
}

func (p *parser) binary(canAssign bool) {
	opTok := p.previous.Kind
	rule := rules[opTok]
	p.parsePrecedence(rule.precedence + 1)

	switch opTok {
	case token.BANG_EQUAL:
		p.emitOp(OpEqual)
		p.emitOp(OpNot)
	case token.EQUAL_EQUAL:
		p.emitOp(OpEqual)
	case token.GREATER:
		p.emitOp(OpGreater)
	case token.GREATER_EQUAL:
		p.emitOp(OpLess)
		p.emitOp(OpNot)
	case token.LESS:
		p.emitOp(OpLess)
	case token.LESS_EQUAL:
		p.emitOp(OpGreater)
		p.emitOp(OpNot)
	case token.PLUS:
		p.emitOp(OpAdd)
	case token.MINUS:
		p.emitOp(OpSubtract)
	case token.STAR:
		p.emitOp(OpMultiply)
	case token.SLASH:
		p.emitOp(OpDivide)
	}
}

func (p *parser) literal(canAssign bool) {
	switch p.previous.Kind {
	case token.FALSE:
		p.emitOp(OpFalse)
	case token.NIL:
		p.emitOp(OpNil)
	case token.TRUE:
		p.emitOp(OpTrue)
	}
}

func (p *parser) and_(canAssign bool) {
	endJump := p.emitJump(OpJumpIfFalse)
	p.emitOp(OpPop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

func (p *parser) or_(canAssign bool) {
	elseJump := p.emitJump(OpJumpIfFalse)
	endJump := p.emitJump(OpJump)
	p.patchJump(elseJump)
	p.emitOp(OpPop)
	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

func (p *parser) variable(canAssign bool) {
	p.namedVariable(p.previous.Lexeme, canAssign)
}

func (p *parser) namedVariable(name string, canAssign bool) {
	var getOp, setOp Op
	arg := resolveLocal(p.current, name)
	switch {
	case arg == -2:
		p.error("can't read local variable in its own initializer")
		arg = 0
		getOp, setOp = OpGetLocal, OpSetLocal
	case arg != -1:
		getOp, setOp = OpGetLocal, OpSetLocal
	default:
		if u := resolveUpvalue(p, p.current, name); u != -1 {
			arg = u
			getOp, setOp = OpGetUpvalue, OpSetUpvalue
		} else {
			arg = int(p.identifierConstant(name))
			getOp, setOp = OpGetGlobal, OpSetGlobal
		}
	}

	if canAssign && p.match(token.EQUAL) {
		p.expression()
		p.emitOps(setOp, byte(arg))
	} else {
		p.emitOps(getOp, byte(arg))
	}
}

func (p *parser) this_(canAssign bool) {
	if p.class == nil {
		p.error("can't use 'this' outside of a class")
		return
	}
	p.variable(false)
}

func (p *parser) super_(canAssign bool) {
	switch {
	case p.class == nil:
		p.error("can't use 'super' outside of a class")
	case !p.class.hasSuperclass:
		p.error("can't use 'super' in a class with no superclass")
	}

	p.consume(token.DOT, "expect '.' after 'super'")
	p.consume(token.IDENT, "expect superclass method name")
	name := p.identifierConstant(p.previous.Lexeme)

	p.namedVariable("this", false)
	if p.match(token.LPAREN) {
		argCount := p.argumentList()
		p.namedVariable("super", false)
		p.emitOps(OpSuperInvoke, name)
		p.emitByte(argCount)
		return
	}
	p.namedVariable("super", false)
	p.emitOps(OpGetSuper, name)
}

func (p *parser) call(canAssign bool) {
	argCount := p.argumentList()
	p.emitOps(OpCall, argCount)
}

func (p *parser) dot(canAssign bool) {
	p.consume(token.IDENT, "expect property name after '.'")
	name := p.identifierConstant(p.previous.Lexeme)

	switch {
	case canAssign && p.match(token.EQUAL):
		p.expression()
		p.emitOps(OpSetProperty, name)
	case p.match(token.LPAREN):
		argCount := p.argumentList()
		p.emitOps(OpInvoke, name)
		p.emitByte(argCount)
	default:
		p.emitOps(OpGetProperty, name)
	}
}

func (p *parser) argumentList() byte {
	var argCount int
	if !p.check(token.RPAREN) {
		for {
			p.expression()
			if argCount == 255 {
				p.error("can't have more than 255 arguments")
			}
			argCount++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expect ')' after arguments")
	return byte(argCount)
}

var rules [token.EOF + 64]parseRule // sized generously; populated in init below

func init() {
	set := func(k token.Kind, prefix, infix parseFn, prec precedence) {
		rules[k] = parseRule{prefix: prefix, infix: infix, precedence: prec}
	}
	set(token.LPAREN, (*parser).grouping, (*parser).call, precCall)
	set(token.DOT, nil, (*parser).dot, precCall)
	set(token.MINUS, (*parser).unary, (*parser).binary, precTerm)
	set(token.PLUS, nil, (*parser).binary, precTerm)
	set(token.SLASH, nil, (*parser).binary, precFactor)
	set(token.STAR, nil, (*parser).binary, precFactor)
	set(token.BANG, (*parser).unary, nil, precNone)
	set(token.BANG_EQUAL, nil, (*parser).binary, precEquality)
	set(token.EQUAL_EQUAL, nil, (*parser).binary, precEquality)
	set(token.GREATER, nil, (*parser).binary, precComparison)
	set(token.GREATER_EQUAL, nil, (*parser).binary, precComparison)
	set(token.LESS, nil, (*parser).binary, precComparison)
	set(token.LESS_EQUAL, nil, (*parser).binary, precComparison)
	set(token.IDENT, (*parser).variable, nil, precNone)
	set(token.STRING, (*parser).stringLit, nil, precNone)
	set(token.NUMBER, (*parser).number, nil, precNone)
	set(token.AND, nil, (*parser).and_, precAnd)
	set(token.OR, nil, (*parser).or_, precOr)
	set(token.FALSE, (*parser).literal, nil, precNone)
	set(token.TRUE, (*parser).literal, nil, precNone)
	set(token.NIL, (*parser).literal, nil, precNone)
	set(token.THIS, (*parser).this_, nil, precNone)
	set(token.SUPER, (*parser).super_, nil, precNone)
}
