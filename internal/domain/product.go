package domain

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Fallback values applied when a producer registers a product without the
// optional fields. The app is Portuguese-facing, so the placeholders are too.
const (
	WaterUsageUnknown    = "Não informado"
	EnvironmentalUnknown = "Dados não disponíveis"
)

// RecentWindow is how long a product counts as recently registered.
const RecentWindow = 7 * 24 * time.Hour

// Product is a traceable agricultural product, keyed by its trace code.
type Product struct {
	Code                string    `json:"id"`
	Name                string    `json:"name"`
	Origin              string    `json:"origin"`
	BatchNumber         string    `json:"batchNumber"`
	HarvestDate         string    `json:"harvestDate,omitempty"`
	WaterUsage          string    `json:"waterUsage"`
	Certifications      []string  `json:"certifications"`
	Description         string    `json:"description"`
	EnvironmentalImpact string    `json:"environmentalImpact"`
	ImageURL            string    `json:"imageUrl,omitempty"`
	ProducerID          string    `json:"producerId"`
	ProducerName        string    `json:"producerName"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ApplyDefaults fills the optional fields a producer may omit.
func (p *Product) ApplyDefaults() {
	if p.BatchNumber == "" {
		p.BatchNumber = p.Code
	}
	if p.WaterUsage == "" {
		p.WaterUsage = WaterUsageUnknown
	}
	if p.EnvironmentalImpact == "" {
		p.EnvironmentalImpact = EnvironmentalUnknown
	}
	if p.Description == "" {
		p.Description = "Produto rastreado via AgroTrace. Lote: " + p.Code
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
}

// IsRecent reports whether the product was registered inside the recent window.
func (p *Product) IsRecent(now time.Time) bool {
	return now.Sub(p.CreatedAt) <= RecentWindow
}

// IsCertified reports whether the product carries at least one certification.
func (p *Product) IsCertified() bool {
	return len(p.Certifications) > 0
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateTraceCode creates a new trace code: "TRC" followed by the current
// unix milliseconds and five random characters, both base36, uppercased.
func GenerateTraceCode(now time.Time) string {
	var b strings.Builder
	b.WriteString("TRC")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	for i := 0; i < 5; i++ {
		b.WriteByte(base36Alphabet[rand.Intn(len(base36Alphabet))])
	}
	return strings.ToUpper(b.String())
}
