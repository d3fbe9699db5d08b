package jack

import (
	"fmt"
	"io"
	"os"
	"strings"

	pc "github.com/prataprc/goparsec"

	"nand2tetris.dev/toolchain/pkg/utils"
)

var ast = pc.NewAST("jack_program", 0)

// ----------------------------------------------------------------------------
// Forward references
//
// The Jack grammar is naturally recursive (a parenthesized term contains an
// expression, an expression is built out of terms, an if/while body is a list
// of statements that can itself contain an if/while): expressed directly as
// package-level combinator values this would be a circular initialization
// (pExpr needs pTerm's value, pTerm needs pExpr's value). Go follows references
// through function bodies when ordering package-level vars, so a wrapper that
// names 'pExpr' directly would still be part of the cycle. These thin wrapper
// functions instead call through plain parser variables that carry no
// initializer and are only bound in init(), after every package-level var below
// has already been initialized.
func exprRef(s pc.Scanner) (pc.ParsecNode, pc.Scanner) { return exprParser(s) }
func stmtRef(s pc.Scanner) (pc.ParsecNode, pc.Scanner) { return stmtParser(s) }

var exprParser, stmtParser, termParser pc.Parser

func init() { exprParser, stmtParser, termParser = pExpr, pStatement, pTerm }

var (
	pClass = ast.And("class_decl", nil,
		ast.Kleene("header", nil, pComment),
		pc.Atom("class", "CLASS"), pIdent, pLBrace,
		ast.Kleene("fields", nil, ast.OrdChoice("field_item", nil, pFieldDecl, pComment)),
		ast.Kleene("methods", nil, ast.OrdChoice("method_item", nil, pMethod, pComment)),
		pRBrace,
	)

	// A class (static or instance) variable declaration: "(static|field) type name (, name)* ;"
	pFieldDecl = ast.And("field_decl", nil,
		pVarScope, pDataType, ast.Kleene("names", nil, pIdent, pComma), pSemi,
	)

	pMethod = ast.And("method_decl", nil,
		pSubroutineKind, pDataType, pIdent,
		pLParen, ast.Kleene("arguments", nil, ast.And("argument", nil, pDataType, pIdent), pComma), pRParen,
		pLBrace,
		ast.Kleene("locals", nil, ast.OrdChoice("local_item", nil, pVarDecl, pComment)),
		ast.Kleene("body", nil, ast.OrdChoice("stmt_item", nil, pc.Parser(stmtRef), pComment)),
		pRBrace,
	)

	// A subroutine-local variable declaration: "var type name (, name)* ;"
	pVarDecl = ast.And("var_decl", nil,
		pc.Atom("var", "VAR"), pDataType, ast.Kleene("names", nil, pIdent, pComma), pSemi,
	)

	// Wrapped in its own And so it always surfaces as a "comment" node: OrdChoice is
	// transparent and would otherwise flatten straight to "sl_comment"/"ml_comment",
	// forcing every comment-skipping call site to know both variant names.
	pComment = ast.And("comment", nil, ast.OrdChoice("comment_kind", nil,
		ast.And("sl_comment", nil, pc.Atom("//", "//"), pc.Token(`(?m).*$`, "COMMENT")),
		ast.And("ml_comment", nil, pc.Token(`/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`, "COMMENT")),
	))
)

var (
	pLetStmt = ast.And("let_stmt", nil,
		pc.Atom("let", "LET"), pIdent,
		pc.Maybe(nil, ast.And("index", nil, pLBracket, pc.Parser(exprRef), pRBracket)),
		pc.Atom("=", "ASSIGN"), pc.Parser(exprRef), pSemi,
	)

	pIfStmt = ast.And("if_stmt", nil,
		pc.Atom("if", "IF"), pLParen, pc.Parser(exprRef), pRParen,
		pLBrace, ast.Kleene("then_block", nil, pc.Parser(stmtRef)), pRBrace,
		pc.Maybe(nil, ast.And("else_block", nil, pc.Atom("else", "ELSE"), pLBrace, ast.Kleene("stmts", nil, pc.Parser(stmtRef)), pRBrace)),
	)

	pWhileStmt = ast.And("while_stmt", nil,
		pc.Atom("while", "WHILE"), pLParen, pc.Parser(exprRef), pRParen,
		pLBrace, ast.Kleene("block", nil, pc.Parser(stmtRef)), pRBrace,
	)

	pDoStmt = ast.And("do_stmt", nil, pc.Atom("do", "DO"), pSubroutineCall, pSemi)

	pReturnStmt = ast.And("return_stmt", nil, pc.Atom("return", "RETURN"), pc.Maybe(nil, pc.Parser(exprRef)), pSemi)

	// pStatement is itself a forward-declared combinator (see 'stmtRef'): every other
	// statement-shaped combinator above reaches recursively back into this one.
	pStatement = ast.OrdChoice("statement", nil, pLetStmt, pIfStmt, pWhileStmt, pDoStmt, pReturnStmt)

	// Either a bare call ("foo(...)") or a qualified one ("obj.foo(...)" / "Class.foo(...)").
	pSubroutineCall = ast.And("subroutine_call", nil,
		ast.Many("qualifiers", nil, pIdent, pDot), pLParen, pExprList, pRParen,
	)

	pExprList = ast.Kleene("expr_list", nil, pc.Parser(exprRef), pComma)
)

var (
	pExpr = ast.And("expression", nil, pTerm, ast.Kleene("tail", nil, ast.And("op_term", nil, pBinOp, pTerm)))

	pTerm = ast.OrdChoice("term", nil,
		pUnaryTerm, pParenTerm, pLiteral, pCallTerm, pArrayTerm, pVarTerm,
	)

	pUnaryTerm = ast.And("unary_term", nil, pUnaryOp, pc.Parser(termRef))
	pParenTerm = ast.And("paren_term", nil, pLParen, pc.Parser(exprRef), pRParen)
	pCallTerm  = ast.And("call_term", nil, pSubroutineCall)
	pArrayTerm = ast.And("array_term", nil, pIdent, pLBracket, pc.Parser(exprRef), pRBracket)
	pVarTerm   = ast.And("var_term", nil, pIdent)

	pBinOp = ast.OrdChoice("bin_op", nil,
		pc.Atom("+", "PLUS"), pc.Atom("-", "MINUS"), pc.Atom("*", "MULT"), pc.Atom("/", "DIV"),
		pc.Atom("&", "AND"), pc.Atom("|", "OR"), pc.Atom("<", "LT"), pc.Atom(">", "GT"), pc.Atom("=", "EQ"),
	)
	pUnaryOp = ast.OrdChoice("unary_op", nil, pc.Atom("-", "NEG"), pc.Atom("~", "NOT"))

	pLiteral = ast.OrdChoice("literal", nil,
		pc.Float(), pc.Int(), pc.Token(`"(?:\\.|[^"\\])*"`, "STRING"),
		pc.Token("true", "TRUE"), pc.Token("false", "FALSE"), pc.Token("null", "NULL"), pc.Token("this", "THIS"),
	)
)

// termRef exists because the operand of 'pUnaryTerm' is itself a term, so 'pTerm'
// reaches back into itself and needs the same forward-reference trick as
// 'exprRef'/'stmtRef' above.
func termRef(s pc.Scanner) (pc.ParsecNode, pc.Scanner) { return termParser(s) }

var (
	pIdent = pc.Token(`[A-Za-z_][0-9a-zA-Z_]*`, "IDENT")

	pDot       = pc.Atom(".", "DOT")
	pSemi      = pc.Atom(";", "SEMI")
	pComma     = pc.Atom(",", "COMMA")
	pLBrace    = pc.Atom("{", "LBRACE")
	pRBrace    = pc.Atom("}", "RBRACE")
	pLParen    = pc.Atom("(", "LPAREN")
	pRParen    = pc.Atom(")", "RPAREN")
	pLBracket  = pc.Atom("[", "LBRACKET")
	pRBracket  = pc.Atom("]", "RBRACKET")

	pVarScope = ast.OrdChoice("var_scope", nil, pc.Atom("static", "STATIC"), pc.Atom("field", "FIELD"))

	pSubroutineKind = ast.OrdChoice("subroutine_kind", nil,
		pc.Atom("constructor", "CONSTRUCTOR"), pc.Atom("function", "FUNCTION"), pc.Atom("method", "METHOD"),
	)

	pDataType = ast.OrdChoice("data_type", nil,
		pc.Atom("int", "INT"), pc.Atom("char", "CHAR"), pc.Atom("boolean", "BOOLEAN"), pc.Atom("bool", "BOOL"),
		pc.Atom("void", "VOID"), pIdent,
	)
)

// ----------------------------------------------------------------------------
// Jack Parser

// This section defines the Parser for the nand2tetris Jack language.
//
// It uses parser combinator(s) to obtain the AST from the source code (the latter can be provided)
// in multiple ways using a generic io.Reader, the library reads up the feature flags (as env vars):
// - PARSEC_DEBUG: Verbose logging to inspect which of the PCs gets triggered and match
// - EXPORT_AST:   Exports in the DEBUG_FOLDER a Graphviz representation of the AST
// - PRINT_AST:    Print on the stdout a textual representation of the AST
type Parser struct{ reader io.Reader }

// Initializes and returns to the caller a brand new 'Parser' struct.
// Requires the argument io.Reader 'r' to be valid and usable.
func NewParser(r io.Reader) Parser {
	return Parser{reader: r}
}

// Parser entrypoint divides the 2 phases of the parsing pipeline
// Text --> AST: This step is done using PCs and returns a generic traversable AST
// AST --> IR: This step is done by traversing the AST and extracting the 'jack.Class'
func (p *Parser) Parse() (Class, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return Class{}, fmt.Errorf("cannot read from 'io.Reader': %s", err)
	}

	root, success := p.FromSource(content)
	if !success {
		return Class{}, fmt.Errorf("failed to parse AST from input content")
	}

	return p.FromAST(root)
}

// Scans the textual input stream coming from the 'reader' method and returns a traversable AST
// (Abstract Syntax Tree) that can be eventually visited to extract/transform the info available.
func (p *Parser) FromSource(source []byte) (pc.Queryable, bool) {
	if os.Getenv("PARSEC_DEBUG") != "" {
		ast.SetDebug()
	}

	root, scanner := ast.Parsewith(pClass, pc.NewScanner(source))

	if os.Getenv("EXPORT_AST") != "" {
		file, _ := os.Create(fmt.Sprintf("%s/debug.ast.dot", os.Getenv("DEBUG_FOLDER")))
		defer file.Close()
		file.Write([]byte(ast.Dotstring("\"Jack AST\"")))
	}

	if os.Getenv("PRINT_AST") != "" {
		ast.Prettyprint()
	}

	return root, root != nil && scanner.Endof()
}

// Walks the "class_decl" root node and produces the typed 'jack.Class' it describes.
//
// Every node below is addressed by its fixed position among its parent And's
// arguments (comments, keywords and punctuation all occupy a slot of their own;
// only OrdChoice/Maybe are transparent and fold into the matched alternative).
func (p *Parser) FromAST(root pc.Queryable) (Class, error) {
	if root == nil || root.GetName() != "class_decl" {
		return Class{}, fmt.Errorf("expected node 'class_decl', found %v", root)
	}

	children := root.GetChildren()
	if len(children) != 7 {
		return Class{}, fmt.Errorf("malformed class declaration, expected 7 nodes got %d", len(children))
	}

	class := Class{
		Name:        children[2].GetValue(),
		Fields:      utils.NewOrderedMap[string, Variable](),
		Subroutines: utils.NewOrderedMap[string, Subroutine](),
	}

	for _, node := range children[4].GetChildren() { // fields
		if node.GetName() != "field_decl" {
			continue // comment
		}
		vars, err := p.HandleFieldDecl(node)
		if err != nil {
			return Class{}, err
		}
		for _, v := range vars {
			class.Fields.Set(v.Name, v)
		}
	}

	for _, node := range children[5].GetChildren() { // methods
		if node.GetName() != "method_decl" {
			continue // comment
		}
		sub, err := p.HandleMethod(node)
		if err != nil {
			return Class{}, err
		}
		class.Subroutines.Set(sub.Name, sub)
	}

	return class, nil
}

// Specialized function to convert a "field_decl" node to a list of 'jack.Variable'.
func (p *Parser) HandleFieldDecl(node pc.Queryable) ([]Variable, error) {
	children := node.GetChildren()
	if len(children) != 4 {
		return nil, fmt.Errorf("malformed field declaration")
	}

	varType, err := varTypeFromScope(children[0].GetValue())
	if err != nil {
		return nil, err
	}
	dataType := dataTypeFromToken(children[1].GetValue())

	names := children[2].GetChildren()
	vars := make([]Variable, 0, len(names))
	for _, name := range names {
		vars = append(vars, Variable{Name: name.GetValue(), VarType: varType, DataType: dataType, ClassName: dataType.Subtype})
	}
	return vars, nil
}

// Specialized function to convert a "var_decl" node to a list of 'jack.Variable' (always Local).
func (p *Parser) HandleVarDecl(node pc.Queryable) ([]Variable, error) {
	children := node.GetChildren()
	if len(children) != 4 {
		return nil, fmt.Errorf("malformed local variable declaration")
	}

	dataType := dataTypeFromToken(children[1].GetValue())
	names := children[2].GetChildren()
	vars := make([]Variable, 0, len(names))
	for _, name := range names {
		vars = append(vars, Variable{Name: name.GetValue(), VarType: Local, DataType: dataType, ClassName: dataType.Subtype})
	}
	return vars, nil
}

// Specialized function to convert a "method_decl" node to a 'jack.Subroutine'.
func (p *Parser) HandleMethod(node pc.Queryable) (Subroutine, error) {
	children := node.GetChildren()
	if len(children) != 10 {
		return Subroutine{}, fmt.Errorf("malformed subroutine declaration, expected 10 nodes got %d", len(children))
	}

	kind, err := subroutineKindFromToken(children[0].GetValue())
	if err != nil {
		return Subroutine{}, err
	}

	sub := Subroutine{
		Name:      children[2].GetValue(),
		Type:      kind,
		Return:    dataTypeFromToken(children[1].GetValue()),
		Arguments: utils.NewOrderedMap[string, Variable](),
	}

	for _, argNode := range children[4].GetChildren() { // arguments
		argChildren := argNode.GetChildren()
		if len(argChildren) != 2 {
			return Subroutine{}, fmt.Errorf("malformed argument in subroutine '%s'", sub.Name)
		}
		dataType := dataTypeFromToken(argChildren[0].GetValue())
		sub.Arguments.Set(argChildren[1].GetValue(), Variable{
			Name: argChildren[1].GetValue(), VarType: Parameter, DataType: dataType, ClassName: dataType.Subtype,
		})
	}

	for _, localNode := range children[7].GetChildren() { // locals
		if localNode.GetName() != "var_decl" {
			continue // comment
		}
		vars, err := p.HandleVarDecl(localNode)
		if err != nil {
			return Subroutine{}, err
		}
		sub.Statements = append(sub.Statements, VarStmt{Vars: vars})
	}

	for _, stmtNode := range children[8].GetChildren() { // body
		if stmtNode.GetName() == "comment" {
			continue
		}
		stmt, err := p.HandleStatement(stmtNode)
		if err != nil {
			return Subroutine{}, err
		}
		if stmt != nil {
			sub.Statements = append(sub.Statements, stmt)
		}
	}

	return sub, nil
}

// Generalized function to convert any statement node to a 'jack.Statement'.
func (p *Parser) HandleStatement(node pc.Queryable) (Statement, error) {
	switch node.GetName() {
	case "let_stmt":
		return p.HandleLetStmt(node)
	case "if_stmt":
		return p.HandleIfStmt(node)
	case "while_stmt":
		return p.HandleWhileStmt(node)
	case "do_stmt":
		return p.HandleDoStmt(node)
	case "return_stmt":
		return p.HandleReturnStmt(node)
	case "comment":
		return nil, nil
	default:
		return nil, fmt.Errorf("unrecognized statement node '%s'", node.GetName())
	}
}

// "let_stmt": [0]"let" [1]IDENT [2]maybe-index [3]"=" [4]expression [5]";"
func (p *Parser) HandleLetStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 6 {
		return nil, fmt.Errorf("malformed let statement, expected 6 nodes got %d", len(children))
	}

	lhs := Expression(VarExpr{Var: children[1].GetValue()})
	if children[2].GetName() == "index" {
		idxChildren := children[2].GetChildren()
		if len(idxChildren) != 3 {
			return nil, fmt.Errorf("malformed array index in let statement")
		}
		index, err := p.HandleExpression(idxChildren[1])
		if err != nil {
			return nil, err
		}
		lhs = ArrayExpr{Var: children[1].GetValue(), Index: index}
	}

	rhs, err := p.HandleExpression(children[4])
	if err != nil {
		return nil, err
	}

	return LetStmt{Lhs: lhs, Rhs: rhs}, nil
}

// "if_stmt": [0]"if" [1]"(" [2]expression [3]")" [4]"{" [5]then_block [6]"}" [7]maybe-else_block
func (p *Parser) HandleIfStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 8 {
		return nil, fmt.Errorf("malformed if statement, expected 8 nodes got %d", len(children))
	}

	cond, err := p.HandleExpression(children[2])
	if err != nil {
		return nil, err
	}

	stmt := IfStmt{Condition: cond}
	for _, s := range children[5].GetChildren() {
		if s.GetName() == "comment" {
			continue
		}
		parsed, err := p.HandleStatement(s)
		if err != nil {
			return nil, err
		}
		if parsed != nil {
			stmt.ThenBlock = append(stmt.ThenBlock, parsed)
		}
	}

	if children[7].GetName() == "else_block" { // "else_block": [0]"else" [1]"{" [2]stmts [3]"}"
		elseChildren := children[7].GetChildren()
		if len(elseChildren) != 4 {
			return nil, fmt.Errorf("malformed else block")
		}
		for _, s := range elseChildren[2].GetChildren() {
			if s.GetName() == "comment" {
				continue
			}
			parsed, err := p.HandleStatement(s)
			if err != nil {
				return nil, err
			}
			if parsed != nil {
				stmt.ElseBlock = append(stmt.ElseBlock, parsed)
			}
		}
	}

	return stmt, nil
}

// "while_stmt": [0]"while" [1]"(" [2]expression [3]")" [4]"{" [5]block [6]"}"
func (p *Parser) HandleWhileStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 7 {
		return nil, fmt.Errorf("malformed while statement, expected 7 nodes got %d", len(children))
	}

	cond, err := p.HandleExpression(children[2])
	if err != nil {
		return nil, err
	}

	stmt := WhileStmt{Condition: cond}
	for _, s := range children[5].GetChildren() {
		if s.GetName() == "comment" {
			continue
		}
		parsed, err := p.HandleStatement(s)
		if err != nil {
			return nil, err
		}
		if parsed != nil {
			stmt.Block = append(stmt.Block, parsed)
		}
	}

	return stmt, nil
}

// "do_stmt": [0]"do" [1]subroutine_call [2]";"
func (p *Parser) HandleDoStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 3 {
		return nil, fmt.Errorf("malformed do statement, expected 3 nodes got %d", len(children))
	}

	call, err := p.HandleSubroutineCall(children[1])
	if err != nil {
		return nil, err
	}
	return DoStmt{FuncCall: call}, nil
}

// "return_stmt": [0]"return" [1]maybe-expression [2]";"
func (p *Parser) HandleReturnStmt(node pc.Queryable) (Statement, error) {
	children := node.GetChildren()
	if len(children) != 3 {
		return nil, fmt.Errorf("malformed return statement, expected 3 nodes got %d", len(children))
	}
	if children[1].GetName() != "expression" {
		return ReturnStmt{}, nil
	}
	expr, err := p.HandleExpression(children[1])
	if err != nil {
		return nil, err
	}
	return ReturnStmt{Expr: expr}, nil
}

// Generalized function to convert an "expression" node to a 'jack.Expression', applying
// every subsequent "op_term" left to right (Jack has no operator precedence, see spec.md §4.3).
// "expression": [0]term [1]tail(children = list of "op_term")
func (p *Parser) HandleExpression(node pc.Queryable) (Expression, error) {
	children := node.GetChildren()
	if len(children) != 2 {
		return nil, fmt.Errorf("malformed expression, expected 2 nodes got %d", len(children))
	}

	result, err := p.HandleTerm(children[0])
	if err != nil {
		return nil, err
	}

	for _, opTerm := range children[1].GetChildren() {
		opChildren := opTerm.GetChildren()
		if len(opChildren) != 2 {
			return nil, fmt.Errorf("malformed operator application")
		}

		rhs, err := p.HandleTerm(opChildren[1])
		if err != nil {
			return nil, err
		}

		exprType, err := exprTypeFromToken(opChildren[0].GetValue())
		if err != nil {
			return nil, err
		}
		result = BinaryExpr{Type: exprType, Lhs: result, Rhs: rhs}
	}

	return result, nil
}

// Generalized function to convert a "term" node to a 'jack.Expression'. Literal
// leaves surface here directly (INT, STRING, TRUE, ...) since pLiteral's OrdChoice,
// like every OrdChoice in this grammar, is transparent: it returns whichever
// alternative matched unwrapped, never a node named "literal".
func (p *Parser) HandleTerm(node pc.Queryable) (Expression, error) {
	switch node.GetName() {
	case "unary_term":
		children := node.GetChildren()
		if len(children) != 2 {
			return nil, fmt.Errorf("malformed unary term")
		}
		rhs, err := p.HandleTerm(children[1])
		if err != nil {
			return nil, err
		}
		op := Negation
		if children[0].GetValue() == "~" {
			op = BoolNot
		}
		return UnaryExpr{Type: op, Rhs: rhs}, nil

	case "paren_term": // [0]"(" [1]expression [2]")"
		children := node.GetChildren()
		if len(children) != 3 {
			return nil, fmt.Errorf("malformed parenthesized term")
		}
		return p.HandleExpression(children[1])

	case "call_term": // [0]subroutine_call
		children := node.GetChildren()
		if len(children) != 1 {
			return nil, fmt.Errorf("malformed call term")
		}
		return p.HandleSubroutineCall(children[0])

	case "array_term": // [0]IDENT [1]"[" [2]expression [3]"]"
		children := node.GetChildren()
		if len(children) != 4 {
			return nil, fmt.Errorf("malformed array term")
		}
		index, err := p.HandleExpression(children[2])
		if err != nil {
			return nil, err
		}
		return ArrayExpr{Var: children[0].GetValue(), Index: index}, nil

	case "var_term":
		children := node.GetChildren()
		if len(children) != 1 {
			return nil, fmt.Errorf("malformed variable term")
		}
		return VarExpr{Var: children[0].GetValue()}, nil

	case "INT", "FLOAT":
		return LiteralExpr{Type: DataType{Main: Int}, Value: node.GetValue()}, nil
	case "STRING":
		return LiteralExpr{Type: DataType{Main: String}, Value: strings.Trim(node.GetValue(), `"`)}, nil
	case "TRUE":
		return LiteralExpr{Type: DataType{Main: Bool}, Value: "true"}, nil
	case "FALSE":
		return LiteralExpr{Type: DataType{Main: Bool}, Value: "false"}, nil
	case "NULL":
		return LiteralExpr{Type: DataType{Main: Object}, Value: "null"}, nil
	case "THIS":
		return VarExpr{Var: "this"}, nil

	default:
		return nil, fmt.Errorf("unrecognized term node '%s'", node.GetName())
	}
}

// Specialized function to convert a "subroutine_call" node to a 'jack.FuncCallExpr'.
// The qualifier list is either 1 name long (a bare, same-class call) or 2 names long
// (an object- or class-qualified call) — Jack allows no deeper qualification than that.
// "subroutine_call": [0]qualifiers [1]"(" [2]expr_list [3]")"
func (p *Parser) HandleSubroutineCall(node pc.Queryable) (FuncCallExpr, error) {
	children := node.GetChildren()
	if len(children) != 4 {
		return FuncCallExpr{}, fmt.Errorf("malformed subroutine call, expected 4 nodes got %d", len(children))
	}

	qualifiers := children[0].GetChildren()

	call := FuncCallExpr{}
	switch len(qualifiers) {
	case 1:
		call.IsExtCall = false
		call.FuncName = qualifiers[0].GetValue()
	case 2:
		call.IsExtCall = true
		call.Var = qualifiers[0].GetValue()
		call.FuncName = qualifiers[1].GetValue()
	default:
		return FuncCallExpr{}, fmt.Errorf("subroutine call must have 1 or 2 name qualifiers, got %d", len(qualifiers))
	}

	for _, argNode := range children[2].GetChildren() {
		arg, err := p.HandleExpression(argNode)
		if err != nil {
			return FuncCallExpr{}, err
		}
		call.Arguments = append(call.Arguments, arg)
	}

	return call, nil
}

// ----------------------------------------------------------------------------
// Token conversion helpers

func varTypeFromScope(token string) (VarType, error) {
	switch token {
	case "static":
		return Static, nil
	case "field":
		return Field, nil
	default:
		return "", fmt.Errorf("unrecognized variable scope '%s'", token)
	}
}

func subroutineKindFromToken(token string) (SubroutineType, error) {
	switch token {
	case "constructor":
		return Constructor, nil
	case "function":
		return Function, nil
	case "method":
		return Method, nil
	default:
		return "", fmt.Errorf("unrecognized subroutine kind '%s'", token)
	}
}

func dataTypeFromToken(token string) DataType {
	switch token {
	case "int":
		return DataType{Main: Int}
	case "char":
		return DataType{Main: Char}
	case "bool", "boolean":
		return DataType{Main: Bool}
	case "void":
		return DataType{Main: Void}
	default: // Any other identifier names a user-defined class, i.e. an Object reference
		return DataType{Main: Object, Subtype: token}
	}
}

func exprTypeFromToken(token string) (ExprType, error) {
	switch token {
	case "+":
		return Plus, nil
	case "-":
		return Minus, nil
	case "*":
		return Multiply, nil
	case "/":
		return Divide, nil
	case "&":
		return BoolAnd, nil
	case "|":
		return BoolOr, nil
	case "<":
		return LessThan, nil
	case ">":
		return GreatThan, nil
	case "=":
		return Equal, nil
	default:
		return "", fmt.Errorf("unrecognized binary operator '%s'", token)
	}
}

