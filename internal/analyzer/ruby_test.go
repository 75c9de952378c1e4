package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Ruby extraction:
// - Constant and local assignments become variables
// - Methods report parameters with defaults and calls without parens
// - @ivar = <param> in initialize promotes to an attribute (bare name)
// - Receiver calls record receiver.method
// - Operator assignment (+=) is not a declaration
// - Blocks do not open function scopes; their locals join the method

const rubySample = `TOTAL = 100

def greet(name, greeting = "Hello")
  message = "#{greeting}, #{name}!"
  puts message
  message
end

class Counter
  def initialize(start)
    @count = start
  end

  def increment(by = 1)
    @count += by
    log(by)
  end
end
`

func TestRuby_TopLevelAndFunctions(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "sample.rb", rubySample)

	require.Len(t, record.TopLevelVariables, 1)
	assert.Equal(t, "TOTAL", record.TopLevelVariables[0].Name)
	assert.Equal(t, "100", deref(record.TopLevelVariables[0].Value))

	greet := findFunction(t, record.Functions, "greet")
	assert.Equal(t, 3, greet.StartLine)
	assert.Equal(t, 7, greet.EndLine)
	require.Len(t, greet.Parameters, 2)
	assert.Equal(t, "name", greet.Parameters[0].Name)
	assert.Equal(t, "greeting", greet.Parameters[1].Name)
	assert.Equal(t, `"Hello"`, deref(greet.Parameters[1].Default))

	assert.Equal(t, []string{"message"}, variableNames(greet.LocalVars))
	assert.Equal(t, []string{"puts"}, greet.Calls)
}

func TestRuby_ClassAndPromotion(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "sample.rb", rubySample)

	require.Len(t, record.Classes, 1)
	cls := record.Classes[0]
	assert.Equal(t, "Counter", cls.Name)

	// @count = start in initialize promotes, with the sigil stripped.
	require.Len(t, cls.Attributes, 1)
	assert.Equal(t, "count", cls.Attributes[0].Name)
	assert.Equal(t, "start", deref(cls.Attributes[0].Value))

	increment := findFunction(t, cls.Methods, "increment")
	assert.Equal(t, "1", deref(increment.Parameters[0].Default))
	assert.Equal(t, []string{"log"}, increment.Calls)
	assert.Empty(t, increment.LocalVars)
}

func TestRuby_ReceiverCalls(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "recv.rb", `def report(logger)
  logger.info "starting"
  File.read("data.txt")
end
`)

	report := findFunction(t, record.Functions, "report")
	assert.Equal(t, []string{"logger.info", "File.read"}, report.Calls)
}

func TestRuby_BlockLocalsJoinMethod(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "blocks.rb", `def sum(items)
  total = 0
  items.each do |item|
    total = total + item
  end
  total
end
`)

	sum := findFunction(t, record.Functions, "sum")
	assert.Equal(t, []string{"total"}, variableNames(sum.LocalVars))
	assert.Equal(t, []string{"items.each"}, sum.Calls)
}
