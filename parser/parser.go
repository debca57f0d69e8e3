// Package parser implements a Pratt (precedence-climbing) parser that
// drives a pluggable dialect.Dialect to turn a token stream into an AST.
package parser

import (
	"strconv"
	"strings"

	"github.com/agildata/zeroproxy/ast"
	"github.com/agildata/zeroproxy/dialect"
	"github.com/agildata/zeroproxy/token"
	"github.com/agildata/zeroproxy/zerror"
)

// Parser walks a fixed token slice, delegating expression-grammar
// decisions to a dialect.Dialect while owning statement-level grammar
// itself.
type Parser struct {
	tokens []token.Token
	pos    int
	reg    *token.Registry
	dia    dialect.Dialect
}

// Parse tokenizes sql under d and parses exactly one statement from it.
func Parse(sql string, d dialect.Dialect) (ast.Stmt, *token.Registry, error) {
	tokens, reg, err := token.Tokenize(sql, d)
	if err != nil {
		return nil, nil, err
	}
	p := &Parser{tokens: tokens, reg: reg, dia: d}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, nil, err
	}
	if tok := p.Peek(); tok.Kind != token.EOF {
		return nil, nil, zerror.NewParseError("1064", "unexpected trailing input at position %d: %s", tok.Pos, tok)
	}
	return stmt, reg, nil
}

func (p *Parser) Next() token.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) Peek() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) Registry() *token.Registry { return p.reg }

// Literal converts a lexed Literal token into its ast.Literal node,
// preserving the LiteralIndex so downstream planners can look the body
// up in the Registry.
func (p *Parser) Literal(tok token.Token) ast.Expr {
	var kind ast.LiteralKind
	switch tok.LiteralKind {
	case token.LiteralString:
		kind = ast.LitString
	case token.LiteralLong:
		kind = ast.LitLong
	case token.LiteralDouble:
		kind = ast.LitDouble
	case token.LiteralBool:
		kind = ast.LitBool
	case token.LiteralNull:
		kind = ast.LitNull
	}
	return &ast.Literal{Kind: kind, Index: tok.LiteralIndex}
}

// ParseExpr is the Pratt loop: parse a prefix expression, then keep
// absorbing infix continuations whose precedence exceeds the minimum
// the caller supplied.
func (p *Parser) ParseExpr(precedence int) (ast.Expr, error) {
	left, err := p.dia.ParsePrefix(p)
	if err != nil {
		return nil, err
	}

	for {
		next := p.Peek()
		if next.Kind == token.EOF {
			break
		}
		nextPrec := p.dia.Precedence(next)
		if nextPrec <= precedence {
			break
		}
		left, err = p.dia.ParseInfix(p, left, nextPrec)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) expectKeyword(word string) error {
	tok := p.Next()
	if tok.Kind != token.Keyword || !strings.EqualFold(tok.Text, word) {
		return zerror.NewParseError("1064", "expected keyword %s at position %d, got %s", word, tok.Pos, tok)
	}
	return nil
}

func (p *Parser) isKeyword(word string) bool {
	tok := p.Peek()
	return tok.Kind == token.Keyword && strings.EqualFold(tok.Text, word)
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	tok := p.Peek()
	if tok.Kind != token.Keyword {
		return nil, zerror.NewParseError("1064", "expected a statement keyword at position %d, got %s", tok.Pos, tok)
	}
	switch strings.ToUpper(tok.Text) {
	case "SELECT":
		return p.parseSelect()
	case "INSERT":
		return p.parseInsert()
	case "UPDATE":
		return p.parseUpdate()
	case "DELETE":
		return p.parseDelete()
	case "CREATE":
		return p.parseCreateTable()
	case "USE":
		return p.parseUse()
	default:
		return nil, zerror.NewParseError("1064", "unsupported statement type %s at position %d", tok.Text, tok.Pos)
	}
}

func (p *Parser) parseSelect() (*ast.SelectStmt, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	stmt := &ast.SelectStmt{}

	if p.isKeyword("DISTINCT") {
		p.Next()
	}

	proj, err := p.parseProjection()
	if err != nil {
		return nil, err
	}
	stmt.Projection = proj

	if p.isKeyword("FROM") {
		p.Next()
		from, err := p.parseFrom()
		if err != nil {
			return nil, err
		}
		stmt.From = from
	}

	if p.isKeyword("WHERE") {
		p.Next()
		where, err := p.ParseExpr(0)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.isKeyword("GROUP") {
		p.Next()
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		items, err := p.parseExprCommaList()
		if err != nil {
			return nil, err
		}
		stmt.GroupBy = items
	}

	if p.isKeyword("HAVING") {
		p.Next()
		having, err := p.ParseExpr(0)
		if err != nil {
			return nil, err
		}
		stmt.Having = having
	}

	if p.isKeyword("ORDER") {
		p.Next()
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		items, err := p.parseOrderByList()
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = items
	}

	if p.isKeyword("LIMIT") {
		p.Next()
		limit, err := p.ParseExpr(ansiComparisonPrecedence)
		if err != nil {
			return nil, err
		}
		stmt.Limit = limit
	}

	if p.isKeyword("UNION") {
		p.Next()
		all := false
		if p.isKeyword("ALL") {
			p.Next()
			all = true
		}
		union, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		stmt.Union = union
		stmt.UnionAll = all
	}

	return stmt, nil
}

// ansiComparisonPrecedence avoids LIMIT's numeric literal being chained
// into a wider expression when the next token happens to bind loosely.
const ansiComparisonPrecedence = 20

func (p *Parser) parseProjection() ([]ast.Expr, error) {
	var items []ast.Expr
	for {
		e, err := p.ParseExpr(0)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if tok := p.Peek(); tok.Kind == token.Punctuator && tok.Text == "," {
			p.Next()
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseExprCommaList() ([]ast.Expr, error) {
	var items []ast.Expr
	for {
		e, err := p.ParseExpr(0)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if tok := p.Peek(); tok.Kind == token.Punctuator && tok.Text == "," {
			p.Next()
			continue
		}
		break
	}
	return items, nil
}

func (p *Parser) parseOrderByList() ([]ast.OrderItem, error) {
	var items []ast.OrderItem
	for {
		e, err := p.ParseExpr(0)
		if err != nil {
			return nil, err
		}
		item := ast.OrderItem{Expr: e}
		if p.isKeyword("DESC") {
			p.Next()
			item.Desc = true
		} else if p.isKeyword("ASC") {
			p.Next()
		}
		items = append(items, item)
		if tok := p.Peek(); tok.Kind == token.Punctuator && tok.Text == "," {
			p.Next()
			continue
		}
		break
	}
	return items, nil
}

// parseFrom parses a FROM clause: a JOIN-linked chain of table
// references, each optionally aliased. A comma-separated table list is
// not accepted; parsing stops at the comma.
func (p *Parser) parseFrom() (ast.Expr, error) {
	left, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}

	for {
		kind := ""
		switch {
		case p.isKeyword("JOIN"):
			p.Next()
			kind = "INNER"
		case p.isKeyword("INNER"):
			p.Next()
			if err := p.expectKeyword("JOIN"); err != nil {
				return nil, err
			}
			kind = "INNER"
		case p.isKeyword("LEFT"):
			p.Next()
			if p.isKeyword("OUTER") {
				p.Next()
			}
			if err := p.expectKeyword("JOIN"); err != nil {
				return nil, err
			}
			kind = "LEFT"
		case p.isKeyword("RIGHT"):
			p.Next()
			if p.isKeyword("OUTER") {
				p.Next()
			}
			if err := p.expectKeyword("JOIN"); err != nil {
				return nil, err
			}
			kind = "RIGHT"
		case p.isKeyword("CROSS"):
			p.Next()
			if err := p.expectKeyword("JOIN"); err != nil {
				return nil, err
			}
			kind = "CROSS"
		default:
			return left, nil
		}

		right, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}

		join := &ast.JoinExpr{Left: left, Kind: kind, Right: right}
		if kind != "CROSS" {
			if err := p.expectKeyword("ON"); err != nil {
				return nil, err
			}
			on, err := p.ParseExpr(0)
			if err != nil {
				return nil, err
			}
			join.On = on
		}
		left = join
	}
}

func (p *Parser) parseTableRef() (ast.Expr, error) {
	var ref ast.Expr

	if tok := p.Peek(); tok.Kind == token.Punctuator && tok.Text == "(" {
		p.Next()
		if err := p.expectKeyword("SELECT"); err != nil {
			return nil, err
		}
		p.pos-- // un-consume SELECT, parseSelect expects to see it
		sub, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		if tok := p.Next(); tok.Kind != token.Punctuator || tok.Text != ")" {
			return nil, zerror.NewParseError("1064", "expected ')' closing subquery at position %d", tok.Pos)
		}
		ref = &ast.SubqueryExpr{Select: sub}
	} else {
		ident, err := p.parseQualifiedIdent()
		if err != nil {
			return nil, err
		}
		ref = ident
	}

	if p.isKeyword("AS") {
		p.Next()
		aliasTok := p.Next()
		return &ast.AliasExpr{Expr: ref, Alias: aliasTok.Text}, nil
	}
	if tok := p.Peek(); tok.Kind == token.Identifier {
		aliasTok := p.Next()
		return &ast.AliasExpr{Expr: ref, Alias: aliasTok.Text}, nil
	}
	return ref, nil
}

func (p *Parser) parseQualifiedIdent() (*ast.Ident, error) {
	first := p.Next()
	if first.Kind != token.Identifier && first.Kind != token.Keyword {
		return nil, zerror.NewParseError("1064", "expected identifier at position %d, got %s", first.Pos, first)
	}
	parts := []string{first.Text}
	for {
		tok := p.Peek()
		if tok.Kind == token.Punctuator && tok.Text == "." {
			p.Next()
			next := p.Next()
			parts = append(parts, next.Text)
			continue
		}
		break
	}
	return &ast.Ident{Parts: parts}, nil
}

func (p *Parser) parseInsert() (*ast.InsertStmt, error) {
	if err := p.expectKeyword("INSERT"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}
	table, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	stmt := &ast.InsertStmt{Table: table}

	if tok := p.Peek(); tok.Kind == token.Punctuator && tok.Text == "(" {
		p.Next()
		for {
			col := p.Next()
			stmt.Columns = append(stmt.Columns, col.Text)
			tok := p.Next()
			if tok.Kind == token.Punctuator && tok.Text == "," {
				continue
			}
			if tok.Kind == token.Punctuator && tok.Text == ")" {
				break
			}
			return nil, zerror.NewParseError("1064", "expected ',' or ')' in column list at position %d", tok.Pos)
		}
	}

	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}

	for {
		if tok := p.Next(); tok.Kind != token.Punctuator || tok.Text != "(" {
			return nil, zerror.NewParseError("1064", "expected '(' starting a VALUES tuple at position %d", tok.Pos)
		}
		row, err := p.parseExprCommaList()
		if err != nil {
			return nil, err
		}
		if tok := p.Next(); tok.Kind != token.Punctuator || tok.Text != ")" {
			return nil, zerror.NewParseError("1064", "expected ')' closing a VALUES tuple at position %d", tok.Pos)
		}
		stmt.Values = append(stmt.Values, row)

		if tok := p.Peek(); tok.Kind == token.Punctuator && tok.Text == "," {
			p.Next()
			continue
		}
		break
	}

	return stmt, nil
}

func (p *Parser) parseUpdate() (*ast.UpdateStmt, error) {
	if err := p.expectKeyword("UPDATE"); err != nil {
		return nil, err
	}
	table, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	stmt := &ast.UpdateStmt{Table: table}

	if err := p.expectKeyword("SET"); err != nil {
		return nil, err
	}
	for {
		col := p.Next()
		if tok := p.Next(); tok.Kind != token.Operator || tok.Text != "=" {
			return nil, zerror.NewParseError("1064", "expected '=' in SET clause at position %d", tok.Pos)
		}
		val, err := p.ParseExpr(PrecAssignment)
		if err != nil {
			return nil, err
		}
		stmt.Set = append(stmt.Set, ast.Assignment{Column: col.Text, Value: val})

		if tok := p.Peek(); tok.Kind == token.Punctuator && tok.Text == "," {
			p.Next()
			continue
		}
		break
	}

	if p.isKeyword("WHERE") {
		p.Next()
		where, err := p.ParseExpr(0)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	return stmt, nil
}

// PrecAssignment stops a SET clause's value expression from swallowing
// the comma-separated assignment that follows it.
const PrecAssignment = 0

func (p *Parser) parseDelete() (*ast.DeleteStmt, error) {
	if err := p.expectKeyword("DELETE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	stmt := &ast.DeleteStmt{Table: table}

	if p.isKeyword("WHERE") {
		p.Next()
		where, err := p.ParseExpr(0)
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

func (p *Parser) parseUse() (*ast.UseStmt, error) {
	if err := p.expectKeyword("USE"); err != nil {
		return nil, err
	}
	schema := p.Next()
	return &ast.UseStmt{Schema: schema.Text}, nil
}

// parseCreateTable delegates its datatype/keyword vocabulary to the
// active dialect via the generic Ident/Keyword token stream; MySQL's
// CREATE TABLE grammar is handled in full here since ANSI SQL does not
// define one of its own.
func (p *Parser) parseCreateTable() (*ast.CreateTableStmt, error) {
	if err := p.expectKeyword("CREATE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	table, err := p.parseQualifiedIdent()
	if err != nil {
		return nil, err
	}
	stmt := &ast.CreateTableStmt{Table: table, TableOptions: map[string]string{}}

	if tok := p.Next(); tok.Kind != token.Punctuator || tok.Text != "(" {
		return nil, zerror.NewParseError("1064", "expected '(' after table name at position %d", tok.Pos)
	}

	for {
		if p.isKeyAtCurrent() {
			key, err := p.parseKeyDef()
			if err != nil {
				return nil, err
			}
			stmt.Keys = append(stmt.Keys, key)
		} else {
			col, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
		}

		tok := p.Next()
		if tok.Kind == token.Punctuator && tok.Text == "," {
			continue
		}
		if tok.Kind == token.Punctuator && tok.Text == ")" {
			break
		}
		return nil, zerror.NewParseError("1064", "expected ',' or ')' in column list at position %d", tok.Pos)
	}

	for {
		tok := p.Peek()
		if tok.Kind != token.Keyword && tok.Kind != token.Identifier {
			break
		}
		name := strings.ToUpper(tok.Text)
		switch name {
		case "ENGINE", "COMMENT", "AUTO_INCREMENT", "CHARSET", "COLLATE":
			p.Next()
			if tok := p.Peek(); tok.Kind == token.Operator && tok.Text == "=" {
				p.Next()
			}
			val := p.Next()
			stmt.TableOptions[name] = val.Text
		case "DEFAULT":
			p.Next()
			opt := p.Next()
			if tok := p.Peek(); tok.Kind == token.Operator && tok.Text == "=" {
				p.Next()
			}
			val := p.Next()
			stmt.TableOptions["DEFAULT_"+strings.ToUpper(opt.Text)] = val.Text
		default:
			return stmt, nil
		}
	}

	return stmt, nil
}

func (p *Parser) isKeyAtCurrent() bool {
	tok := p.Peek()
	if tok.Kind != token.Keyword {
		return false
	}
	switch strings.ToUpper(tok.Text) {
	case "PRIMARY", "UNIQUE", "KEY", "FOREIGN", "FULLTEXT", "INDEX", "CONSTRAINT":
		return true
	}
	return false
}

func (p *Parser) parseKeyDef() (ast.KeyDef, error) {
	kd := ast.KeyDef{}
	tok := p.Next()
	kd.Kind = strings.ToUpper(tok.Text)

	if kd.Kind == "CONSTRAINT" {
		name := p.Next()
		kd.Name = name.Text
		tok = p.Next()
		kd.Kind = strings.ToUpper(tok.Text)
	}

	switch kd.Kind {
	case "PRIMARY":
		if err := p.expectKeyword("KEY"); err != nil {
			return kd, err
		}
		kd.Kind = "PRIMARY"
	case "UNIQUE", "FULLTEXT":
		if p.isKeyword("KEY") || p.isKeyword("INDEX") {
			p.Next()
		}
		if tok := p.Peek(); tok.Kind == token.Identifier {
			kd.Name = p.Next().Text
		}
	case "KEY", "INDEX":
		kd.Kind = "KEY"
		if tok := p.Peek(); tok.Kind == token.Identifier {
			kd.Name = p.Next().Text
		}
	case "FOREIGN":
		if err := p.expectKeyword("KEY"); err != nil {
			return kd, err
		}
	}

	if tok := p.Next(); tok.Kind != token.Punctuator || tok.Text != "(" {
		return kd, zerror.NewParseError("1064", "expected '(' in key definition at position %d", tok.Pos)
	}
	for {
		col := p.Next()
		kd.Columns = append(kd.Columns, col.Text)
		tok := p.Next()
		if tok.Kind == token.Punctuator && tok.Text == "," {
			continue
		}
		if tok.Kind == token.Punctuator && tok.Text == ")" {
			break
		}
		return kd, zerror.NewParseError("1064", "expected ',' or ')' in key column list at position %d", tok.Pos)
	}

	if kd.Kind == "FOREIGN" && p.isKeyword("REFERENCES") {
		p.Next()
		p.parseQualifiedIdent()
		if tok := p.Peek(); tok.Kind == token.Punctuator && tok.Text == "(" {
			p.Next()
			for {
				p.Next()
				tok := p.Next()
				if tok.Kind == token.Punctuator && tok.Text == "," {
					continue
				}
				break
			}
		}
	}

	return kd, nil
}

func (p *Parser) parseColumnDef() (ast.ColumnDef, error) {
	col := ast.ColumnDef{}
	name := p.Next()
	col.Name = name.Text

	dt, err := p.parseDataType()
	if err != nil {
		return col, err
	}
	col.DataType = dt

	for {
		tok := p.Peek()
		if tok.Kind == token.Operator && tok.Text == "NOT" {
			p.Next()
			if n := p.Next(); n.Kind != token.Literal || n.LiteralKind != token.LiteralNull {
				return col, zerror.NewParseError("1064", "expected NULL after NOT at position %d", n.Pos)
			}
			col.NotNull = true
			continue
		}
		if tok.Kind == token.Literal && tok.LiteralKind == token.LiteralNull {
			p.Next()
			continue
		}
		if tok.Kind != token.Keyword {
			break
		}
		switch strings.ToUpper(tok.Text) {
		case "NOT":
			p.Next()
			if err := p.expectKeyword("NULL"); err != nil {
				return col, err
			}
			col.NotNull = true
		case "NULL":
			p.Next()
		case "PRIMARY":
			p.Next()
			if err := p.expectKeyword("KEY"); err != nil {
				return col, err
			}
			col.PrimaryKey = true
		case "UNIQUE":
			p.Next()
			col.Unique = true
		case "AUTO_INCREMENT":
			p.Next()
			col.AutoIncr = true
		case "DEFAULT":
			p.Next()
			val, err := p.ParseExpr(PrecAssignment)
			if err != nil {
				return col, err
			}
			col.Default = val
		case "COMMENT":
			p.Next()
			val := p.Next()
			col.Comment = val.Text
		default:
			return col, nil
		}
	}

	return col, nil
}

// parseDataType parses a column type name and its optional
// parenthesized length/precision/fsp/enum-member list.
func (p *Parser) parseDataType() (ast.DataType, error) {
	dt := ast.DataType{}
	nameTok := p.Next()
	name := strings.ToUpper(nameTok.Text)

	kindMap := map[string]ast.DataTypeKind{
		"BIT": ast.TypeBit, "TINYINT": ast.TypeTinyInt, "SMALLINT": ast.TypeSmallInt,
		"MEDIUMINT": ast.TypeMediumInt, "INT": ast.TypeInt, "INTEGER": ast.TypeInt,
		"BIGINT": ast.TypeBigInt, "DECIMAL": ast.TypeDecimal, "DEC": ast.TypeDecimal,
		"FLOAT": ast.TypeFloat, "DOUBLE": ast.TypeDouble, "BOOL": ast.TypeBool,
		"BOOLEAN": ast.TypeBool, "DATE": ast.TypeDate, "DATETIME": ast.TypeDateTime,
		"TIMESTAMP": ast.TypeTimestamp, "TIME": ast.TypeTime, "YEAR": ast.TypeYear,
		"CHAR": ast.TypeChar, "NCHAR": ast.TypeChar, "NATIONAL": ast.TypeChar,
		"VARCHAR": ast.TypeVarchar, "NVARCHAR": ast.TypeVarchar,
		"BINARY": ast.TypeBinary, "VARBINARY": ast.TypeVarBinary,
		"TINYBLOB": ast.TypeTinyBlob, "TINYTEXT": ast.TypeTinyText,
		"MEDIUMBLOB": ast.TypeMediumBlob, "MEDIUMTEXT": ast.TypeMediumText,
		"LONGBLOB": ast.TypeLongBlob, "LONGTEXT": ast.TypeLongText,
		"BLOB": ast.TypeBlob, "TEXT": ast.TypeText,
		"ENUM": ast.TypeEnum, "SET": ast.TypeSet,
	}

	if name == "NATIONAL" {
		next := p.Next()
		name = strings.ToUpper(next.Text)
	}

	kind, ok := kindMap[name]
	if !ok {
		return dt, zerror.NewParseError("1064", "unknown data type %s at position %d", name, nameTok.Pos)
	}
	dt.Kind = kind

	if tok := p.Peek(); tok.Kind == token.Punctuator && tok.Text == "(" {
		p.Next()
		if kind == ast.TypeEnum || kind == ast.TypeSet {
			for {
				v := p.Next()
				if v.Kind == token.Literal {
					v.Text = p.reg.Get(v.LiteralIndex)
				}
				dt.Values = append(dt.Values, v.Text)
				tok := p.Next()
				if tok.Kind == token.Punctuator && tok.Text == "," {
					continue
				}
				break
			}
		} else {
			nums := []int{}
			for {
				n := p.Next()
				if n.Kind == token.Literal {
					n.Text = p.reg.Get(n.LiteralIndex)
				}
				v, _ := strconv.Atoi(n.Text)
				nums = append(nums, v)
				tok := p.Next()
				if tok.Kind == token.Punctuator && tok.Text == "," {
					continue
				}
				break
			}
			switch {
			case kind == ast.TypeDecimal && len(nums) == 2:
				dt.Precision, dt.Scale = nums[0], nums[1]
			case kind == ast.TypeDateTime || kind == ast.TypeTimestamp || kind == ast.TypeTime:
				if len(nums) == 1 {
					dt.FSP = nums[0]
				}
			case len(nums) == 1:
				dt.Length = nums[0]
			}
		}
	}

	if p.isKeyword("UNSIGNED") {
		p.Next()
		dt.Unsigned = true
	}
	if p.isKeyword("SIGNED") {
		p.Next()
	}

	return dt, nil
}
