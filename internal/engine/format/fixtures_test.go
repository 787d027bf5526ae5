package format

type fixture struct {
	name     string
	input    string
	expected string
}

var jsonFixtures = []fixture{
	{
		name:  "simple_object",
		input: `{"name":"test","value":123}`,
		expected: `{
  "name": "test",
  "value": 123
}`,
	},
	{
		name:  "nested_object",
		input: `{"user":{"name":"John","details":{"age":30,"city":"NYC"}}}`,
		expected: `{
  "user": {
    "name": "John",
    "details": {
      "age": 30,
      "city": "NYC"
    }
  }
}`,
	},
	{
		name:     "simple_array",
		input:    `[1,2,3,4,5]`,
		expected: `[1, 2, 3, 4, 5]`,
	},
	{
		name:  "long_array",
		input: `[1,2,3,4,5,6,7,8,9,10]`,
		expected: `[
  1,
  2,
  3,
  4,
  5,
  6,
  7,
  8,
  9,
  10
]`,
	},
	{name: "empty_object", input: `{}`, expected: `{}`},
	{name: "empty_array", input: `[]`, expected: `[]`},
	{name: "single_property_object", input: `{"name":"test"}`, expected: `{"name": "test"}`},
}

var mustacheFixtures = []fixture{
	{name: "simple_interpolation", input: `{{name}}`, expected: `{{name}}`},
	{
		name: "section_basic",
		input: `{{#users}}
{{name}}
{{/users}}`,
		expected: `{{#users}}
  {{name}}
{{/users}}`,
	},
	{
		name: "nested_sections",
		input: `{{#users}}
{{#active}}
{{name}} is active
{{/active}}
{{/users}}`,
		expected: `{{#users}}
  {{#active}}
    {{name}} is active
  {{/active}}
{{/users}}`,
	},
	{
		name: "inverted_section",
		input: `{{^users}}
No users found
{{/users}}`,
		expected: `{{^users}}
  No users found
{{/users}}`,
	},
}

var mixedFixtures = []fixture{
	{
		name: "json_with_mustache_simple",
		input: `{
"users": [
{{#each users}}
{"name": "{{name}}", "email": "{{email}}"}{{#unless @last}},{{/unless}}
{{/each}}
]
}`,
		expected: `{
  "users": [
    {{#each users}}
    {
      "name": "{{name}}",
      "email": "{{email}}"
    }{{#unless @last}},{{/unless}}
    {{/each}}
  ]
}`,
	},
	{
		name: "conditional_json_properties",
		input: `{
"name": "{{name}}"{{#if email}},
"email": "{{email}}"{{/if}}{{#if age}},
"age": {{age}}{{/if}}
}`,
		expected: `{
  "name": "{{name}}"{{#if email}},
  "email": "{{email}}"{{/if}}{{#if age}},
  "age": {{age}}{{/if}}
}`,
	},
	{
		name:  "tag_values_after_colon",
		input: `{"a":{{x}},"b":1}`,
		expected: `{
  "a": {{x}},
  "b": 1
}`,
	},
	{
		name:  "partial_and_raw_values",
		input: `{"a":{{> p}},"b":{{{r}}}}`,
		expected: `{
  "a": {{> p}},
  "b": {{{r}}}
}`,
	},
	{
		name:  "ampersand_value_in_nested_object",
		input: `{"outer":{"a":{{& html}},"b":"{{y}}"}}`,
		expected: `{
  "outer": {
    "a": {{& html}},
    "b": "{{y}}"
  }
}`,
	},
	{
		name: "mustache_in_array",
		input: `[
{{#items}}
"{{.}}"{{#unless @last}},{{/unless}}
{{/items}}
]`,
		expected: `[
  {{#items}}
  "{{.}}"{{#unless @last}},{{/unless}}
  {{/items}}
]`,
	},
}

var commentFixtures = []fixture{
	{
		name: "json5_line_comment",
		input: `{
  "name": "test", // This is a comment
  "value": 123
}`,
		expected: `{
  "name": "test", // This is a comment
  "value": 123
}`,
	},
	{
		name: "json5_block_comment",
		input: `{
  /* This is a
     block comment */
  "name": "test"
}`,
		expected: `{
  /* This is a
     block comment */
  "name": "test"
}`,
	},
	{
		name: "mustache_comment",
		input: `{{! This is a mustache comment }}
{
  "name": "{{name}}"
}`,
		expected: `{{! This is a mustache comment }}
{
  "name": "{{name}}"
}`,
	},
}

var realWorldFixtures = []fixture{
	{
		name: "api_response_template",
		input: `{
"status": "success",
"data": {
"users": [
{{#users}}
{
"id": {{id}},
"name": "{{name}}",
"email": "{{email}}"{{#if profile}},
"profile": {
"avatar": "{{profile.avatar}}",
"bio": "{{profile.bio}}"
}{{/if}}
}{{#unless @last}},{{/unless}}
{{/users}}
]
}
}`,
		expected: `{
  "status": "success",
  "data": {
    "users": [
      {{#users}}
      {
        "id": {{id}},
        "name": "{{name}}",
        "email": "{{email}}"{{#if profile}},
        "profile": {
          "avatar": "{{profile.avatar}}",
          "bio": "{{profile.bio}}"
        }{{/if}}
      }{{#unless @last}},{{/unless}}
      {{/users}}
    ]
  }
}`,
	},
	{
		name: "config_template",
		input: `{
"database": {
"host": "{{db_host}}",
"port": {{db_port}},
"name": "{{db_name}}"
},
"features": [
{{#features}}
"{{name}}"{{#unless @last}},{{/unless}}
{{/features}}
],
"settings": {
{{#each settings}}
"{{@key}}": {{#if (eq type "string")}}"{{value}}"{{else}}{{value}}{{/if}}{{#unless @last}},{{/unless}}
{{/each}}
}
}`,
		expected: `{
  "database": {
    "host": "{{db_host}}",
    "port": {{db_port}},
    "name": "{{db_name}}"
  },
  "features": [
    {{#features}}
    "{{name}}"{{#unless @last}},{{/unless}}
    {{/features}}
  ],
  "settings": {
    {{#each settings}}
    "{{@key}}": {{#if (eq type "string")}}"{{value}}"{{else}}{{value}}{{/if}}{{#unless @last}},{{/unless}}
    {{/each}}
  }
}`,
	},
}

func allFixtures() []fixture {
	var all []fixture
	for _, group := range [][]fixture{jsonFixtures, mustacheFixtures, mixedFixtures, commentFixtures, realWorldFixtures} {
		all = append(all, group...)
	}
	return all
}
