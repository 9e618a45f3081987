package pddlrun

const (
	// ResultFileName is the fixed name the planner writes its plan under,
	// relative to the working directory it was started in.
	ResultFileName = "sas_plan"
	// PlanFilePrefix is the prefix for indexed plan files in the output directory.
	PlanFilePrefix = "plan"
	// PlanFileExt is the extension for indexed plan files.
	PlanFileExt = ".txt"
	// LogFilePrefix is the prefix for indexed planner log files.
	LogFilePrefix = "log"
	// LogFileExt is the extension for indexed planner log files.
	LogFileExt = ".txt"
	// ProblemFilePrefix is the prefix for generated problem files.
	ProblemFilePrefix = "problem"
	// ProblemFileExt is the extension for generated problem files.
	ProblemFileExt = ".pddl"
	// ProblemTemplateName is the problem template file under the templates directory.
	ProblemTemplateName = "problem.pddl.tmpl"
	// DomainFileName is the default domain file under the templates directory.
	DomainFileName = "domain.pddl"
)
