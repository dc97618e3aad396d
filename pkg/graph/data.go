package graph

// NodeData is the interface for type-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// UsecaseData holds the extension fields of a usecase node.
type UsecaseData struct {
	Actor    string `json:"actor,omitempty"`
	Priority string `json:"priority"`
}

func (UsecaseData) nodeData() {}

// ScreenData holds the extension fields of a screen node.
type ScreenData struct {
	ScreenType string `json:"screenType"` // e.g. "form", "list", "detail"
	Route      string `json:"route,omitempty"`
}

func (ScreenData) nodeData() {}

// ProcessData holds the extension fields of a process node.
type ProcessData struct {
	ProcessType string `json:"processType"` // "computation", "transformation", "io"
}

func (ProcessData) nodeData() {}

// StorageData holds the extension fields of a storage node.
type StorageData struct {
	StorageType string `json:"storageType"` // "database", "cache", "file"
}

func (StorageData) nodeData() {}

// DecisionData holds the extension fields of a decision node.
type DecisionData struct {
	Condition string   `json:"condition,omitempty"`
	Branches  []string `json:"branches,omitempty"`
}

func (DecisionData) nodeData() {}

// ActorData holds the extension fields of an actor node.
type ActorData struct {
	ActorType string `json:"actorType"` // "user", "system", "external"
}

func (ActorData) nodeData() {}

// EventData holds the extension fields of an event node.
type EventData struct {
	Trigger string `json:"trigger,omitempty"`
}

func (EventData) nodeData() {}

// ServiceData holds the extension fields of a service node.
type ServiceData struct {
	Protocol string `json:"protocol"` // "http", "grpc", "internal"
	Endpoint string `json:"endpoint,omitempty"`
}

func (ServiceData) nodeData() {}

// QueueData holds the extension fields of a queue node.
type QueueData struct {
	DeliveryMode string `json:"deliveryMode"` // "at-least-once", "at-most-once"
}

func (QueueData) nodeData() {}

// DocumentData holds the extension fields of a document node.
type DocumentData struct {
	Format string `json:"format"` // "pdf", "markdown", "spreadsheet"
}

func (DocumentData) nodeData() {}

// TimerData holds the extension fields of a timer node.
type TimerData struct {
	Schedule string `json:"schedule,omitempty"` // cron-ish expression
}

func (TimerData) nodeData() {}

// NoteData holds the extension fields of a note node.
type NoteData struct {
	Pinned bool `json:"pinned"`
}

func (NoteData) nodeData() {}

// defaultDataFor constructs the default payload for a node type. The switch
// is exhaustive over NodeType so that adding a kind without a constructor
// is caught in review.
func defaultDataFor(t NodeType) NodeData {
	switch t {
	case NodeUsecase:
		return UsecaseData{Priority: "medium"}
	case NodeScreen:
		return ScreenData{ScreenType: "form"}
	case NodeProcess:
		return ProcessData{ProcessType: "computation"}
	case NodeStorage:
		return StorageData{StorageType: "database"}
	case NodeDecision:
		return DecisionData{}
	case NodeActor:
		return ActorData{ActorType: "user"}
	case NodeEvent:
		return EventData{}
	case NodeService:
		return ServiceData{Protocol: "http"}
	case NodeQueue:
		return QueueData{DeliveryMode: "at-least-once"}
	case NodeDocument:
		return DocumentData{Format: "markdown"}
	case NodeTimer:
		return TimerData{}
	case NodeNote:
		return NoteData{}
	default:
		return nil
	}
}

// defaultTitleFor derives the initial title for a new node from its type.
func defaultTitleFor(t NodeType) string {
	switch t {
	case NodeUsecase:
		return "New Use Case"
	case NodeScreen:
		return "New Screen"
	case NodeProcess:
		return "New Process"
	case NodeStorage:
		return "New Storage"
	case NodeDecision:
		return "New Decision"
	case NodeActor:
		return "New Actor"
	case NodeEvent:
		return "New Event"
	case NodeService:
		return "New Service"
	case NodeQueue:
		return "New Queue"
	case NodeDocument:
		return "New Document"
	case NodeTimer:
		return "New Timer"
	case NodeNote:
		return "New Note"
	default:
		return "New Node"
	}
}
