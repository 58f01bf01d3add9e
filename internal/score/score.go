// Package score holds the quality-lens scoring record attached to a
// Feature. A lens (e.g. "product_fit", "test_coverage") is scored once
// per review pass by an external evaluator; the feature keeps only the
// latest score per lens.
package score

// QualityScore is one lens's evaluation of a feature at a point in time.
type QualityScore struct {
	Lens        string   `yaml:"lens" json:"lens"`
	Score       int      `yaml:"score" json:"score"`
	Deductions  []string `yaml:"deductions,omitempty" json:"deductions,omitempty"`
	Evaluator   string   `yaml:"evaluator" json:"evaluator"`
	Timestamp   string   `yaml:"timestamp" json:"timestamp"`
}
