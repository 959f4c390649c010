package compiler

import (
	"testing"

	"github.com/avelino/simplec/config"
	"github.com/avelino/simplec/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileScenarioA(t *testing.T) {
	src := "10 let x = 2\n20 let y = x + 3\n30 print y\n99 end\n"
	res := Compile(src, *config.DefaultConfig())
	require.False(t, res.Diagnostics.HadErrors(), "unexpected diagnostics: %s", res.Diagnostics)
	require.False(t, res.Inoperante)
	assert.Contains(t, res.Words, "+0002")
	assert.Contains(t, res.Words, "+0005")
}

func TestCompileScenarioCStopsBeforeCodegen(t *testing.T) {
	src := "10 print q\n20 end\n"
	res := Compile(src, *config.DefaultConfig())
	require.True(t, res.Diagnostics.HadErrors())
	assert.Nil(t, res.Words, "codegen must not run without compile_despite_errors")
	assert.False(t, res.Inoperante)
}

func TestCompileDespiteErrorsStillEmitsWords(t *testing.T) {
	src := "10 print q\n20 end\n"
	cfg := *config.DefaultConfig()
	cfg.CompileDespiteErrors = true
	res := Compile(src, cfg)
	require.True(t, res.Diagnostics.HadErrors())
	assert.True(t, res.Inoperante)
	assert.NotEmpty(t, res.Words)
}

func TestCompileEachStageSeesItsOwnTokenCopy(t *testing.T) {
	// A program rejected by the semantic analyzer stops before codegen,
	// and the result must still carry the diagnostic that stage raised,
	// since no stage mutates or consumes another's view of the token stream.
	src := "10 goto 0\n20 end\n"
	res := Compile(src, *config.DefaultConfig())
	require.True(t, res.Diagnostics.HadErrors())
	found := false
	for _, d := range res.Diagnostics.All() {
		if d.Kind == diag.NonPositiveJumpTarget {
			found = true
		}
	}
	assert.True(t, found, "expected the semantic non-positive-jump-target diagnostic to survive to the result")
}

func TestCompileScenarioGJumpRoundTrip(t *testing.T) {
	src := "10 input a\n20 if a == 0 goto 50\n30 let a = a - 1\n40 goto 20\n50 print a\n99 end\n"
	res := Compile(src, *config.DefaultConfig())
	require.False(t, res.Diagnostics.HadErrors(), "unexpected diagnostics: %s", res.Diagnostics)
	assert.LessOrEqual(t, len(res.Words), 100)
}
