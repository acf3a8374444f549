package corpus

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/GalitDotan/Oatmeal/internal/errs"
)

var listLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Punct", Pattern: `[\[\],]`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"|'([^'\\]|\\.)*'`},
	{Name: "Bare", Pattern: `[^\[\],\s]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// wordListAST is the "[w1, w2, ...]" literal form corpus.txt may use
// instead of a bare whitespace-separated list.
type wordListAST struct {
	Words []string `parser:"\"[\" ( @String | @Bare ) ( \",\" ( @String | @Bare ) )* \",\"? \"]\""`
}

var listParser = participle.MustBuild[wordListAST](
	participle.Lexer(listLexer),
	participle.Elide("Whitespace"),
)

func parseListLiteral(text string) ([]string, error) {
	ast, err := listParser.ParseString("", text)
	if err != nil {
		return nil, errs.NewConfigurationError("MalformedCorpus", "cannot parse corpus list literal: "+err.Error(),
			map[string]any{"text": text})
	}
	words := make([]string, len(ast.Words))
	for i, w := range ast.Words {
		words[i] = strings.Trim(w, `"'`)
	}
	return words, nil
}
