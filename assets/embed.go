package assets

import "embed"

// PlanFS carries the default whole-Bible reading plan shipped with the bot:
// Old Testament Genesis through Malachi and New Testament Matthew through
// Revelation, spread over 365 days.
//
//go:embed plan.csv
var PlanFS embed.FS

// DefaultPlanName is the file name of the embedded plan inside PlanFS.
const DefaultPlanName = "plan.csv"
