package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hubworks/sitepilot/internal/model"
	"github.com/hubworks/sitepilot/templates"
)

var (
	ruleSchemaOnce sync.Once
	ruleSchema     *jsonschema.Schema
	ruleSchemaErr  error
)

func compiledRuleSchema() (*jsonschema.Schema, error) {
	ruleSchemaOnce.Do(func() {
		raw, err := templates.FS.ReadFile("rule_schema.json")
		if err != nil {
			ruleSchemaErr = fmt.Errorf("read embedded rule schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("rule_schema.json", bytes.NewReader(raw)); err != nil {
			ruleSchemaErr = fmt.Errorf("add rule schema resource: %w", err)
			return
		}
		ruleSchema, ruleSchemaErr = compiler.Compile("rule_schema.json")
	})
	return ruleSchema, ruleSchemaErr
}

// ValidateRuleSchema checks a rule against the embedded JSON schema.
// User-supplied rules pass through here before the engine accepts them.
func ValidateRuleSchema(rule model.RuleDefinition) error {
	schema, err := compiledRuleSchema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(rule)
	if err != nil {
		return fmt.Errorf("marshal rule %s: %w", rule.ID, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode rule %s: %w", rule.ID, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("rule %s failed schema validation: %w", rule.ID, err)
	}
	return nil
}
