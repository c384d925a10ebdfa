package syntax

const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string)
((int_literal) @number)
((float_literal) @number)
((imaginary_literal) @number)
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "fallthrough" "for" "func" "go" "goto" "if" "import" "interface"
  "map" "package" "range" "return" "select" "struct" "switch"
  "type" "var"
] @keyword
((nil) @constant)
((true) @constant)
((false) @constant)
((iota) @constant)
((type_identifier) @type)
((package_identifier) @type)
((function_declaration name: (identifier) @function))
((method_declaration name: (field_identifier) @function))
((call_expression function: (identifier) @function))
((call_expression function: (selector_expression field: (field_identifier) @function)))
((field_identifier) @property)
`

const tomlHighlightQuery = `
((comment) @comment)
((string) @string)
((integer) @number)
((float) @number)
((boolean) @constant)
((table (bare_key) @type))
((table (dotted_key) @type))
((table_array_element (bare_key) @type))
((bare_key) @property)
((quoted_key) @property)
`

const yamlHighlightQuery = `
((comment) @comment)
((block_mapping_pair key: (_) @property))
((flow_pair key: (_) @property))
((string_scalar) @string)
((double_quote_scalar) @string)
((single_quote_scalar) @string)
((integer_scalar) @number)
((float_scalar) @number)
((null_scalar) @constant)
((boolean_scalar) @constant)
((tag) @type)
`

const bashHighlightQuery = `
((comment) @comment)
((string) @string)
((raw_string) @string)
((number) @number)
((command_name) @function)
((function_definition name: (word) @function))
((variable_name) @property)
[
  "if" "then" "else" "elif" "fi" "case" "esac" "for" "while" "until"
  "do" "done" "in" "function" "local" "export" "declare" "unset"
] @keyword
`
