package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for PHP extraction:
// - Top-level assignments become variables with the $ sigil stripped
// - Functions report typed parameters and defaults
// - Property declarations become attributes; promoted constructor
//   parameters double as attributes
// - $this->x = <param> in __construct promotes to an attribute
// - Calls record plain functions, $obj->method, Class::method, and new Type
// - Anonymous and arrow functions are dropped

const phpSample = `<?php
$globalTotal = 0;

function formatName(string $first, string $last = "Doe"): string {
    $full = $first . " " . $last;
    strtoupper($full);
    return $full;
}

class Cart {
    private array $items = [];

    public function __construct(private int $capacity, string $owner) {
        $this->owner = $owner;
    }

    public function addItem($item) {
        $count = count($this->items);
        $this->validate($item);
    }
}
`

func TestPHP_TopLevelAndFunctions(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "sample.php", phpSample)

	require.Len(t, record.TopLevelVariables, 1)
	assert.Equal(t, "globalTotal", record.TopLevelVariables[0].Name)
	assert.Equal(t, "0", deref(record.TopLevelVariables[0].Value))

	format := findFunction(t, record.Functions, "formatName")
	require.Len(t, format.Parameters, 2)
	assert.Equal(t, "first", format.Parameters[0].Name)
	assert.Equal(t, "string", deref(format.Parameters[0].Type))
	assert.Equal(t, "last", format.Parameters[1].Name)
	assert.Equal(t, `"Doe"`, deref(format.Parameters[1].Default))

	assert.Equal(t, []string{"full"}, variableNames(format.LocalVars))
	assert.Equal(t, []string{"strtoupper"}, format.Calls)
}

func TestPHP_ClassPromotionAndCalls(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "sample.php", phpSample)

	require.Len(t, record.Classes, 1)
	cls := record.Classes[0]
	assert.Equal(t, "Cart", cls.Name)

	// items from the property declaration, capacity from constructor
	// promotion, owner from the $this->owner assignment.
	assert.Equal(t, []string{"items", "capacity", "owner"}, variableNames(cls.Attributes))
	assert.Equal(t, "array", deref(cls.Attributes[0].Type))
	assert.Equal(t, "int", deref(cls.Attributes[1].Type))

	ctor := findFunction(t, cls.Methods, "__construct")
	assert.Equal(t, []string{"capacity", "owner"}, []string{ctor.Parameters[0].Name, ctor.Parameters[1].Name})

	addItem := findFunction(t, cls.Methods, "addItem")
	assert.Equal(t, []string{"count"}, variableNames(addItem.LocalVars))
	assert.Equal(t, []string{"count", "$this->validate"}, addItem.Calls)
}

func TestPHP_ScopedAndConstructorCalls(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "calls.php", `<?php
function build() {
    $logger = Logger::getInstance();
    $cart = new Cart(10, "amy");
    return $cart;
}
`)

	build := findFunction(t, record.Functions, "build")
	assert.Equal(t, []string{"logger", "cart"}, variableNames(build.LocalVars))
	assert.Equal(t, []string{"Logger::getInstance", "Cart"}, build.Calls)
}

func TestPHP_AnonymousFunctionDropped(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "anon.php", `<?php
function apply(array $items) {
    return array_map(function ($item) {
        return hidden($item);
    }, $items);
}
`)

	apply := findFunction(t, record.Functions, "apply")
	assert.Equal(t, []string{"array_map"}, apply.Calls)
}
