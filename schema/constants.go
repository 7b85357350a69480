package schema

// Custom string types for type safety.
type (
	// NodeType classifies a code graph node.
	NodeType string

	// Relationship classifies a typed edge between code nodes.
	Relationship string

	// BugCategory classifies a bug report or debugging session.
	BugCategory string

	// RetrievalStatus reports the outcome of a retrieval call.
	RetrievalStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the pattern store.
	DatabaseBackend string
)

// All node types supported.
const (
	FileNode     NodeType = "file"
	FunctionNode NodeType = "function"
	ClassNode    NodeType = "class"
	ModuleNode   NodeType = "module"
)

// All edge relationships supported.
const (
	ContainsRel    Relationship = "contains"
	ImportsRel     Relationship = "imports"
	CallsRel       Relationship = "calls"
	ExtendsRel     Relationship = "extends"
	ImplementsRel  Relationship = "implements"
	UsesRel        Relationship = "uses"
	TestsRel       Relationship = "tests"
	CoModifiedRel  Relationship = "co_modified"
)

// Bug categories that influence adaptive retrieval depth. The type is open:
// callers may record sessions with categories outside this list.
const (
	ConcurrencyIssues BugCategory = "concurrency_issues"
	CrossCategory     BugCategory = "cross_category"
	MemoryIssues      BugCategory = "memory_issues"
	PerformanceBugs   BugCategory = "performance_bugs"
	LogicErrors       BugCategory = "logic_errors"
	APIMisuse         BugCategory = "api_misuse"
)

// Retrieval outcomes. StatusNoStartNodes is a normal soft miss.
const (
	StatusSuccess      RetrievalStatus = "success"
	StatusNoStartNodes RetrievalStatus = "no_start_nodes"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	ParquetOut: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// DefaultEdgeWeight applies to relationships missing from the weight table.
const DefaultEdgeWeight = 0.5

// RelationshipWeights is the fixed edge weight lookup table.
var RelationshipWeights = map[Relationship]float64{
	ContainsRel:   1.0,
	ImportsRel:    0.8,
	ExtendsRel:    0.9,
	ImplementsRel: 0.85,
	CallsRel:      0.7,
	UsesRel:       0.6,
	TestsRel:      0.5,
	CoModifiedRel: 0.5,
}

// DefaultTypeWeight applies to node types missing from the ranking table.
const DefaultTypeWeight = 0.7

// TypeWeights biases final ranking toward coarser-grained artifacts.
var TypeWeights = map[NodeType]float64{
	FileNode:     1.0,
	ClassNode:    0.9,
	FunctionNode: 0.8,
}

// EdgeWeight returns the weight for a relationship, falling back to the default.
func EdgeWeight(rel Relationship) float64 {
	if w, ok := RelationshipWeights[rel]; ok {
		return w
	}
	return DefaultEdgeWeight
}

// TypeWeight returns the ranking weight for a node type, falling back to the default.
func TypeWeight(t NodeType) float64 {
	if w, ok := TypeWeights[t]; ok {
		return w
	}
	return DefaultTypeWeight
}

// Retrieval engine tunables.
const (
	// BaseDepth is the starting k for adaptive expansion.
	BaseDepth = 2

	// DefaultMaxK clamps the adaptive expansion depth.
	DefaultMaxK = 5

	// HopDecay scales candidate scores by hop distance (0.8^hop).
	HopDecay = 0.8

	// AdmissionFactor caps each hop's admitted frontier at
	// ceil(log2(candidates+1) * AdmissionFactor).
	AdmissionFactor = 10

	// MaxKeywordSeeds caps the fallback content scan to this many seed nodes.
	MaxKeywordSeeds = 5

	// DefaultMaxTokens is the context token budget when the query gives none.
	DefaultMaxTokens = 4000

	// CharsPerToken is the token estimation heuristic (len(content)/4).
	CharsPerToken = 4
)

// Pattern store tunables. The mined success rate and the fix-text file regex
// are approximations kept configurable for tuning, not correctness fixes.
const (
	// DefaultDecayFactor is the exponential recency weight base applied per
	// 30 days since a pattern was last seen.
	DefaultDecayFactor = 0.95

	// DefaultConfidenceThreshold discards similarity matches below it.
	DefaultConfidenceThreshold = 0.7

	// DefaultTopK is the number of similar patterns returned.
	DefaultTopK = 5

	// OverfetchFactor over-fetches candidates before rescoring (3*top_k).
	OverfetchFactor = 3

	// DefaultMinPatternFrequency is the batch-mining promotion threshold.
	DefaultMinPatternFrequency = 3

	// DefaultMinedSuccessRate is the assumed success rate for patterns promoted
	// by batch mining, not recomputed from the batch's true outcomes.
	DefaultMinedSuccessRate = 0.8

	// DecayWindowDays is the unit for decay exponent (days_since_seen/30).
	DecayWindowDays = 30
)

// PageRank parameters for graph importance.
const (
	PageRankDamping    = 0.85
	PageRankMaxIter    = 100
	PageRankTolerance  = 1e-6
)
