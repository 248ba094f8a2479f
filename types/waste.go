package types

type WasteType string

const (
	Plastic    WasteType = "Plastic"
	Organic    WasteType = "Organic"
	EWaste     WasteType = "E-Waste"
	Glass      WasteType = "Glass"
	Metal      WasteType = "Metal"
	Paper      WasteType = "Paper"
	Textile    WasteType = "Textile"
	Biomedical WasteType = "Biomedical"
	General    WasteType = "General"
)

// AllWasteTypes is the closed set of labels the classifier may produce.
var AllWasteTypes = []WasteType{
	Plastic, Organic, EWaste, Glass, Metal, Paper, Textile, Biomedical, General,
}

// DisposalMethods maps every waste type to its disposal instructions.
// Every enumerated type must have a non-empty entry; General doubles as the
// fallback for anything unmapped.
var DisposalMethods = map[WasteType]string{
	Plastic:    "Clean and place in Blue Recycling Bin. Remove caps and labels for better recycling.",
	Organic:    "Compost at home or place in Green Organic Waste Bin. Great for creating nutrient-rich soil!",
	EWaste:     "Take to certified E-Waste collection center. Never throw electronics in regular trash.",
	Glass:      "Clean and place in designated Glass Recycling Bin. Separate by color if required.",
	Metal:      "Clean cans and metal items, place in Metal Recycling Bin. Aluminum cans are highly recyclable!",
	Paper:      "Clean, dry paper goes in Paper Recycling Bin. Remove staples and plastic windows.",
	Textile:    "Donate wearable clothes or take to textile recycling center. Consider upcycling projects!",
	Biomedical: "DANGER: Take to hospital or pharmacy for safe disposal. Never put in regular trash.",
	General:    "Place in Black General Waste Bin. Consider if item can be recycled or reused first.",
}

func init() {
	for _, t := range AllWasteTypes {
		if DisposalMethods[t] == "" {
			panic("disposal method missing for waste type: " + string(t))
		}
	}
}

// DisposalMethodFor returns the disposal instructions for t, falling back to
// the General entry for unmapped types. Never returns an empty string.
func DisposalMethodFor(t WasteType) string {
	if m, ok := DisposalMethods[t]; ok {
		return m
	}
	return DisposalMethods[General]
}

type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusVerified ReportStatus = "verified"
	StatusResolved ReportStatus = "resolved"
)

// WasteReport is the persisted record for one accepted submission.
type WasteReport struct {
	ID               string       `firestore:"-" json:"id"`
	UserID           string       `firestore:"userId" json:"user_id"`
	ImageURL         string       `firestore:"imageUrl" json:"image_url"`
	WasteType        WasteType    `firestore:"wasteType" json:"waste_type"`
	DisposalMethod   string       `firestore:"disposalMethod" json:"disposal_method"`
	Latitude         float64      `firestore:"latitude" json:"latitude"`
	Longitude        float64      `firestore:"longitude" json:"longitude"`
	Confidence       float64      `firestore:"confidence" json:"confidence"`
	PointsAwarded    int          `firestore:"pointsAwarded" json:"points_awarded"`
	IsIllegalDumping bool         `firestore:"isIllegalDumping" json:"is_illegal_dumping"`
	Address          string       `firestore:"address,omitempty" json:"address,omitempty"`
	Status           ReportStatus `firestore:"status" json:"status"`
	CreatedAt        string       `firestore:"createdAt" json:"created_at"`
}
