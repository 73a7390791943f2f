package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sells-group/datextract/internal/locale"
)

// Kind classifies a lexed token.
type Kind int

const (
	KindBreak Kind = iota // ends the current run
	KindDigits
	KindModifier
	KindMonth
	KindWeekday
	KindExtra
	KindTimePeriod
	KindTimezone
	KindDelimiter
)

func (k Kind) String() string {
	switch k {
	case KindDigits:
		return "digits"
	case KindModifier:
		return "digits_modifier"
	case KindMonth:
		return "months"
	case KindWeekday:
		return "days"
	case KindExtra:
		return "extra_tokens"
	case KindTimePeriod:
		return "time_periods"
	case KindTimezone:
		return "timezones"
	case KindDelimiter:
		return "delimiters"
	}
	return "break"
}

// dateBearing reports whether a token of this kind can anchor a date.
func (k Kind) dateBearing() bool {
	return k == KindDigits || k == KindModifier || k == KindMonth || k == KindWeekday
}

// Token is one lexical unit with byte offsets into the source text.
type Token struct {
	Kind  Kind
	Start int
	End   int
	Term  string
}

const delimiterChars = "/-.,:_+@"

var ordinalSuffixes = []string{"st", "nd", "rd", "th"}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(delimiterChars, r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// lexer yields tokens one at a time so callers can stop early.
type lexer struct {
	text  string
	pos   int
	vocab *locale.Vocabulary
	queue []Token
}

func newLexer(text string, vocab *locale.Vocabulary) *lexer {
	return &lexer{text: text, vocab: vocab}
}

// next returns the next token, or false at end of input.
func (l *lexer) next() (Token, bool) {
	if len(l.queue) > 0 {
		t := l.queue[0]
		l.queue = l.queue[1:]
		return t, true
	}
	if l.pos >= len(l.text) {
		return Token{}, false
	}

	start := l.pos
	r, size := utf8.DecodeRuneInString(l.text[l.pos:])
	switch {
	case isDigit(r):
		end := l.scan(start, isDigit)
		if suffixEnd, ok := l.ordinalSuffix(end); ok {
			l.pos = suffixEnd
			return l.token(KindModifier, start, suffixEnd), true
		}
		l.pos = end
		return l.token(KindDigits, start, end), true

	case unicode.IsLetter(r):
		end := l.scan(start, unicode.IsLetter)
		l.pos = end
		parts := l.classifyWord(start, end)
		l.queue = append(l.queue, parts[1:]...)
		return parts[0], true

	case isDelimiter(r):
		end := l.scan(start, isDelimiter)
		l.pos = end
		return l.token(KindDelimiter, start, end), true
	}

	l.pos = start + size
	return l.token(KindBreak, start, l.pos), true
}

func (l *lexer) scan(from int, accept func(rune) bool) int {
	i := from
	for i < len(l.text) {
		r, size := utf8.DecodeRuneInString(l.text[i:])
		if !accept(r) {
			break
		}
		i += size
	}
	return i
}

// ordinalSuffix reports whether an ordinal suffix such as "st" starts at i
// and is not itself the start of a longer word.
func (l *lexer) ordinalSuffix(i int) (int, bool) {
	if i+2 > len(l.text) {
		return 0, false
	}
	cand := strings.ToLower(l.text[i : i+2])
	for _, s := range ordinalSuffixes {
		if cand != s {
			continue
		}
		if i+2 < len(l.text) {
			r, _ := utf8.DecodeRuneInString(l.text[i+2:])
			if unicode.IsLetter(r) {
				return 0, false
			}
		}
		return i + 2, true
	}
	return 0, false
}

func (l *lexer) token(k Kind, start, end int) Token {
	return Token{Kind: k, Start: start, End: end, Term: l.text[start:end]}
}

// classifyWord maps a letter run to one token, or to a month/weekday token
// followed by a glued connector word ("Mayday"). Anything else breaks.
func (l *lexer) classifyWord(start, end int) []Token {
	word := l.text[start:end]
	if k := l.wordKind(word); k != KindBreak {
		return []Token{l.token(k, start, end)}
	}
	for i := end - 1; i > start; i-- {
		head := l.text[start:i]
		hk := l.wordKind(head)
		if hk != KindMonth && hk != KindWeekday {
			continue
		}
		if l.vocab.IsExtraToken(l.text[i:end]) {
			return []Token{l.token(hk, start, i), l.token(KindExtra, i, end)}
		}
	}
	return []Token{l.token(KindBreak, start, end)}
}

func (l *lexer) wordKind(w string) Kind {
	switch {
	case l.vocab.IsMonth(w):
		return KindMonth
	case l.vocab.IsWeekday(w):
		return KindWeekday
	case l.vocab.IsTimePeriod(w):
		return KindTimePeriod
	case l.vocab.IsTimezone(w):
		return KindTimezone
	case l.vocab.IsExtraToken(w):
		return KindExtra
	}
	return KindBreak
}
