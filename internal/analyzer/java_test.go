package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Java extraction:
// - Field declarations become class attributes with type and initializer
// - Constructors are detected by carrying the class name; this.x = <param>
//   assignments promote to attributes (deduped against declared fields)
// - Local variable declarations become function locals
// - Method invocations record qualified chains (System.out.println)
// - Object creation records the constructed type name
// - Interfaces map to the class shape
// - Lambda bodies are dropped

const javaSample = `public class Greeter {
    private String name;
    private static final int MAX = 10;

    public Greeter(String name) {
        this.name = name;
    }

    public String greet(String who) {
        String message = "Hello, " + who;
        System.out.println(message);
        return message;
    }

    public Greeter copy() {
        Greeter other = new Greeter(this.name);
        return other;
    }
}
`

func TestJava_ClassExtraction(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "Greeter.java", javaSample)

	require.Len(t, record.Classes, 1)
	cls := record.Classes[0]
	assert.Equal(t, "Greeter", cls.Name)
	assert.Equal(t, 1, cls.StartLine)
	assert.Equal(t, 19, cls.EndLine)

	// name is declared as a field and assigned in the constructor; the
	// declaration wins the duplicate.
	require.Len(t, cls.Attributes, 2)
	assert.Equal(t, "name", cls.Attributes[0].Name)
	assert.Equal(t, "String", deref(cls.Attributes[0].Type))
	assert.Equal(t, "MAX", cls.Attributes[1].Name)
	assert.Equal(t, "int", deref(cls.Attributes[1].Type))
	assert.Equal(t, "10", deref(cls.Attributes[1].Value))

	assert.Equal(t, []string{"Greeter", "greet", "copy"}, functionNames(cls.Methods))
}

func TestJava_MethodBodies(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "Greeter.java", javaSample)
	cls := record.Classes[0]

	greet := findFunction(t, cls.Methods, "greet")
	require.Len(t, greet.Parameters, 1)
	assert.Equal(t, "who", greet.Parameters[0].Name)
	assert.Equal(t, "String", deref(greet.Parameters[0].Type))

	require.Len(t, greet.LocalVars, 1)
	assert.Equal(t, "message", greet.LocalVars[0].Name)
	assert.Equal(t, "String", deref(greet.LocalVars[0].Type))
	assert.Equal(t, `"Hello, " + who`, deref(greet.LocalVars[0].Value))

	assert.Equal(t, []string{"System.out.println"}, greet.Calls)

	copyMethod := findFunction(t, cls.Methods, "copy")
	assert.Equal(t, []string{"other"}, variableNames(copyMethod.LocalVars))
	assert.Equal(t, []string{"Greeter"}, copyMethod.Calls)
}

func TestJava_InterfaceMapsToClassShape(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "Shape.java", `public interface Shape {
    double area();

    double perimeter();
}
`)

	require.Len(t, record.Classes, 1)
	cls := record.Classes[0]
	assert.Equal(t, "Shape", cls.Name)
	assert.Equal(t, []string{"area", "perimeter"}, functionNames(cls.Methods))
}

func TestJava_LambdaBodyDropped(t *testing.T) {
	t.Parallel()
	record := analyzeString(t, "Runner.java", `public class Runner {
    public void run(java.util.List<String> items) {
        items.forEach(item -> hidden(item));
    }
}
`)

	run := findFunction(t, record.Classes[0].Methods, "run")
	assert.Equal(t, []string{"items.forEach"}, run.Calls)
}
