package descriptor

import "strings"

// WellKnown maps JDK boxed, collection and date classes to generic kinds.
var WellKnown = map[string]Kind{
	"java.lang.String":     KindString,
	"java.lang.Boolean":    KindBool,
	"java.lang.Byte":       KindByte,
	"java.lang.Character":  KindString,
	"java.lang.Double":     KindFloat,
	"java.lang.Float":      KindFloat,
	"java.lang.Integer":    KindInt,
	"java.lang.Long":       KindLong,
	"java.lang.Short":      KindInt,
	"java.util.Collection": KindList,
	"java.util.Date":       KindDate,
	"java.util.HashMap":    KindDict,
	"java.util.HashSet":    KindList,
	"java.util.List":       KindList,
	"java.util.Map":        KindDict,
	"java.util.Set":        KindList,
	"java.util.TreeMap":    KindDict,
	"java.util.TreeSet":    KindList,
	"java.util.Vector":     KindList,
}

func Lookup(className string) (Kind, bool) {
	kind, ok := WellKnown[className]
	return kind, ok
}

// IsBoxedLiteral reports whether the dotted class name is a java.lang type
// whose instances can be written as a class file literal.
func IsBoxedLiteral(className string) bool {
	if !strings.HasPrefix(className, "java.lang.") {
		return false
	}
	kind, ok := Lookup(className)
	return ok && kind.IsScalar()
}
