package dice

// Parser is a recursive-descent parser for dice notation with one token of
// lookahead. Grammar, lowest precedence first:
//
//	expression := term (('+' | '-') term)*
//	term       := factor (('*' | '/') factor)*
//	factor     := roll_or_number | '(' expression ')' | '-' factor
//	roll_or_number := [count] ['d' sides modifiers]
//	sides      := integer | '%' | 'F'
//	modifiers  := (keep | drop | explode | reroll | success_condition)*
type Parser struct {
	lex *Lexer
	cur Token
}

// NewParser creates a parser over input with the first token primed.
func NewParser(input string) (*Parser, error) {
	lex := NewLexer(input)
	cur, err := lex.Next()
	if err != nil {
		return nil, err
	}
	return &Parser{lex: lex, cur: cur}, nil
}

// Parse parses the entire input into an expression. Trailing tokens after a
// complete expression are a syntax error.
func (p *Parser) Parse() (Expr, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != TokenEOF {
		return nil, &SyntaxError{Expected: "end of input", Found: p.cur.String()}
	}
	return expr, nil
}

// Parse parses a dice notation string into an expression tree.
//
// Postcondition: returns a non-nil Expr or a lexical/syntactic error.
func Parse(input string) (Expr, error) {
	p, err := NewParser(input)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// MustParse parses input and panics on error. Useful for package-level
// constants and tests.
func MustParse(input string) Expr {
	expr, err := Parse(input)
	if err != nil {
		panic("dice: MustParse failed for expression " + input + ": " + err.Error())
	}
	return expr
}

// advance consumes the current token and returns it.
func (p *Parser) advance() (Token, error) {
	prev := p.cur
	next, err := p.lex.Next()
	if err != nil {
		return Token{}, err
	}
	p.cur = next
	return prev, nil
}

func (p *Parser) expect(kind TokenKind) error {
	if p.cur.Kind != kind {
		return p.syntaxErr(kind.String())
	}
	_, err := p.advance()
	return err
}

// syntaxErr builds an expected/found error for the current token; running
// out of tokens mid-production reports as unexpected end of input instead.
func (p *Parser) syntaxErr(expected string) error {
	if p.cur.Kind == TokenEOF {
		return ErrUnexpectedEOF
	}
	return &SyntaxError{Expected: expected, Found: p.cur.String()}
}

func (p *Parser) expression() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}

	for {
		var op Op
		switch p.cur.Kind {
		case TokenPlus:
			op = OpAdd
		case TokenMinus:
			op = OpSub
		default:
			return left, nil
		}
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) term() (Expr, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}

	for {
		var op Op
		switch p.cur.Kind {
		case TokenStar:
			op = OpMul
		case TokenSlash:
			op = OpDiv
		default:
			return left, nil
		}
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) factor() (Expr, error) {
	switch p.cur.Kind {
	case TokenNumber, TokenD:
		return p.rollOrNumber()
	case TokenLParen:
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return &Group{Inner: inner}, nil
	case TokenMinus:
		// Unary minus is sugar for 0 - factor.
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &BinOp{Op: OpSub, Left: &Number{Value: 0}, Right: inner}, nil
	}
	return nil, p.syntaxErr("number, dice roll, or '('")
}

// rollOrNumber parses "[count]['d' sides modifiers]". An integer with no
// following 'd' is a bare Number; a bare 'd' defaults the count to 1.
func (p *Parser) rollOrNumber() (Expr, error) {
	count := int64(1)
	if p.cur.Kind == TokenNumber {
		count = p.cur.Num
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind != TokenD {
			return &Number{Value: count}, nil
		}
	}

	// Consume the 'd'.
	if _, err := p.advance(); err != nil {
		return nil, err
	}

	sides, err := p.sides()
	if err != nil {
		return nil, err
	}

	mods, err := p.modifiers()
	if err != nil {
		return nil, err
	}

	return &Dice{Count: int(count), Sides: sides, Mods: mods}, nil
}

func (p *Parser) sides() (Sides, error) {
	switch p.cur.Kind {
	case TokenNumber:
		n := p.cur.Num
		if n < 1 {
			return Sides{}, &InvalidSidesError{Sides: n}
		}
		if _, err := p.advance(); err != nil {
			return Sides{}, err
		}
		return Numeric(int(n)), nil
	case TokenPercent:
		if _, err := p.advance(); err != nil {
			return Sides{}, err
		}
		return Percent(), nil
	case TokenFudge:
		if _, err := p.advance(); err != nil {
			return Sides{}, err
		}
		return Fudge(), nil
	}
	return Sides{}, p.syntaxErr("dice sides (number, '%', or 'F')")
}

func (p *Parser) modifiers() ([]Modifier, error) {
	var mods []Modifier

	for {
		switch p.cur.Kind {
		case TokenK:
			if _, err := p.advance(); err != nil {
				return nil, err
			}
			m, err := p.keepModifier()
			if err != nil {
				return nil, err
			}
			mods = append(mods, m)
		case TokenExplode:
			if _, err := p.advance(); err != nil {
				return nil, err
			}
			m, err := p.explodeModifier()
			if err != nil {
				return nil, err
			}
			mods = append(mods, m)
		case TokenR:
			if _, err := p.advance(); err != nil {
				return nil, err
			}
			m, err := p.rerollModifier()
			if err != nil {
				return nil, err
			}
			mods = append(mods, m)
		case TokenD:
			// In modifier position, 'd' followed by 'h' or 'l' is a drop
			// modifier; anything else ends this roll and the 'd' belongs to
			// the surrounding expression.
			next, err := p.lex.Peek()
			if err != nil {
				return nil, err
			}
			if next.Kind != TokenH && next.Kind != TokenL {
				return mods, nil
			}
			if _, err := p.advance(); err != nil {
				return nil, err
			}
			m, err := p.dropModifier()
			if err != nil {
				return nil, err
			}
			mods = append(mods, m)
		case TokenGt, TokenLt, TokenEq:
			// A bare comparator directly after the dice is success counting.
			cond, err := p.requiredCondition()
			if err != nil {
				return nil, err
			}
			mods = append(mods, &CountSuccesses{Cond: cond})
		default:
			return mods, nil
		}
	}
}

// keepModifier parses the tail of "k", "kh3", "kl1", "k3". A bare 'k'
// keeps the highest die.
func (p *Parser) keepModifier() (Modifier, error) {
	high := true
	switch p.cur.Kind {
	case TokenH:
		if _, err := p.advance(); err != nil {
			return nil, err
		}
	case TokenL:
		high = false
		if _, err := p.advance(); err != nil {
			return nil, err
		}
	}

	n, err := p.optionalNumber(1)
	if err != nil {
		return nil, err
	}

	if high {
		return &KeepHighest{N: n}, nil
	}
	return &KeepLowest{N: n}, nil
}

// dropModifier parses the tail of "dh3" or "dl1"; the direction letter is
// mandatory because a bare 'd' would be a new die.
func (p *Parser) dropModifier() (Modifier, error) {
	var high bool
	switch p.cur.Kind {
	case TokenH:
		high = true
	case TokenL:
		high = false
	default:
		return nil, p.syntaxErr("'h' or 'l' after 'd'")
	}
	if _, err := p.advance(); err != nil {
		return nil, err
	}

	n, err := p.optionalNumber(1)
	if err != nil {
		return nil, err
	}

	if high {
		return &DropHighest{N: n}, nil
	}
	return &DropLowest{N: n}, nil
}

// explodeModifier parses the tail of "!", "!p", "!>5", "!p>=5".
func (p *Parser) explodeModifier() (Modifier, error) {
	penetrating := false
	if p.cur.Kind == TokenP {
		penetrating = true
		if _, err := p.advance(); err != nil {
			return nil, err
		}
	}

	cond, err := p.optionalCondition()
	if err != nil {
		return nil, err
	}

	return &Explode{Penetrating: penetrating, Cond: cond}, nil
}

// rerollModifier parses the tail of "r", "ro", "r<3".
func (p *Parser) rerollModifier() (Modifier, error) {
	once := false
	if p.cur.Kind == TokenO {
		once = true
		if _, err := p.advance(); err != nil {
			return nil, err
		}
	}

	cond, err := p.optionalCondition()
	if err != nil {
		return nil, err
	}

	return &Reroll{Once: once, Cond: cond}, nil
}

func (p *Parser) optionalNumber(def int) (int, error) {
	if p.cur.Kind != TokenNumber {
		return def, nil
	}
	n := p.cur.Num
	if _, err := p.advance(); err != nil {
		return 0, err
	}
	return int(n), nil
}

// requiredCondition parses a condition for success counting; unlike explode
// and reroll triggers there is no default.
func (p *Parser) requiredCondition() (Condition, error) {
	cond, err := p.optionalCondition()
	if err != nil {
		return Condition{}, err
	}
	if cond == nil {
		return Condition{}, p.syntaxErr("comparison operator ('>', '<', '=', '>=', '<=', '<>')")
	}
	return *cond, nil
}

// optionalCondition parses "=N", "<N", ">N", "<=N", ">=N", or "<>N";
// returns nil when the current token does not start a condition.
func (p *Parser) optionalCondition() (*Condition, error) {
	var cmp Compare
	switch p.cur.Kind {
	case TokenEq:
		cmp = CmpEq
		if _, err := p.advance(); err != nil {
			return nil, err
		}
	case TokenLt:
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		switch p.cur.Kind {
		case TokenEq:
			cmp = CmpLe
			if _, err := p.advance(); err != nil {
				return nil, err
			}
		case TokenGt:
			cmp = CmpNe
			if _, err := p.advance(); err != nil {
				return nil, err
			}
		default:
			cmp = CmpLt
		}
	case TokenGt:
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == TokenEq {
			cmp = CmpGe
			if _, err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			cmp = CmpGt
		}
	default:
		return nil, nil
	}

	if p.cur.Kind != TokenNumber {
		return nil, p.syntaxErr("number after comparison")
	}
	value := p.cur.Num
	if _, err := p.advance(); err != nil {
		return nil, err
	}
	return &Condition{Cmp: cmp, Value: value}, nil
}
