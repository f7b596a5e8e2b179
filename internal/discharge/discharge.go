package discharge

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"pastelsoft.com/medimap/internal/roster"
)

// defaultDiscipline is the pre-filled conduct rating on a fresh record.
const defaultDiscipline = "Tốt"

// Medication defaults keyed off the diagnosis text. Fever cases get the
// broader list.
const (
	medsFever   = "- Kháng sinh\n- Giảm ho\n- Giảm đau, hạ sốt\n- Kháng histamin\n- Sinh tố"
	medsGeneric = "- Kháng sinh\n- Giảm đau, hạ sốt\n- Sinh tố"
)

// Condition narrative templates. The throat and tonsil variants are only
// used when the diagnosis carries the matching keywords.
const (
	conditionThroatFever = "Tỉnh táo, tiếp xúc tốt, dấu hiệu sinh tồn ổn định. Toàn trạng ổn định, hết sốt, hết ho, hết sổ mũi, hết đau họng, ăn ngủ sinh hoạt bình thường."
	conditionTonsils     = "Tỉnh táo, tiếp xúc tốt, dấu hiệu sinh tồn ổn định. Toàn trạng ổn định, hết sốt, hết ho, hết đau đầu, hết đau họng, amydal hết sưng đau, ăn ngủ sinh hoạt bình thường."
	conditionGeneric     = "Tỉnh táo, tiếp xúc tốt, dấu hiệu sinh tồn ổn định. Toàn trạng ổn định, ăn ngủ sinh hoạt bình thường."
)

// rankLabels maps raw rank codes to display labels. Order matters: the
// double-slash field-officer codes must be tested before their single-slash
// prefixes.
var rankLabels = []struct {
	code  string
	label string
}{
	{"4//", "Đại tá"},
	{"3//", "Thượng tá"},
	{"2//", "Trung tá"},
	{"1//", "Thiếu tá"},
	{"4/", "Đại úy"},
	{"3/", "Thượng úy"},
	{"2/", "Trung úy"},
	{"1/", "Thiếu úy"},
	{"h3", "Thượng sĩ"},
	{"h2", "Trung sĩ"},
	{"h1", "Hạ sĩ"},
	{"b1", "Binh nhất"},
	{"b2", "Binh nhì"},
}

var roleLabels = map[string]string{
	"cs":         "Chiến sĩ",
	"at":         "Tiểu đội trưởng",
	"kđt":        "Khẩu đội trưởng",
	"ctv":        "Chính trị viên",
	"ctvp":       "Chính trị viên phó",
	"ct":         "Đại đội trưởng",
	"pct":        "Phó đại đội trưởng",
	"tx":         "Trưởng xe",
	"tlqc":       "Trợ lý quần chúng",
	"nvcntt":     "Nhân viên CNTT",
	"nvtk":       "Nhân viên thống kê",
	"tltc":       "Trợ lý tác chiến",
	"pcnct":      "Phó chủ nhiệm chính trị",
	"nvna":       "Nhân viên nấu ăn",
	"nđ":         "Nạp đạn",
	"pt":         "Pháo thủ",
	"csm":        "Chiến sĩ mới",
	"lxe":        "Lái xe",
	"tsc":        "Thợ sửa chữa",
	"dt":         "Tiểu đoàn trưởng",
	"pdt":        "Tiểu đoàn phó",
	"nvql":       "Nhân viên quản lý",
	"bt":         "Trung đội trưởng",
	"tlhc":       "Trợ lý hậu cần",
	"tlbvệ":      "Trợ lý bảo vệ",
	"nvqn":       "Nhân viên quân nhu",
	"tlth":       "Trợ lý tuyên huấn",
	"nv cơ yếu":  "Nhân viên cơ yếu",
}

// MapRank resolves a raw rank code to its display label. Unmapped codes pass
// through unchanged.
func MapRank(code string) string {
	lower := strings.ToLower(code)
	for _, rl := range rankLabels {
		if strings.Contains(lower, rl.code) {
			return rl.label
		}
	}
	return code
}

// MapRole resolves a raw role code to its display label. Unmapped codes pass
// through unchanged.
func MapRole(code string) string {
	if label, ok := roleLabels[strings.ToLower(strings.TrimSpace(code))]; ok {
		return label
	}
	return code
}

var (
	feverPrefix = regexp.MustCompile(`(?i)^Sốt[,]?\s+`)
	dayMarker   = regexp.MustCompile(`(?i)\s*N\d+$`)
	companyCode = regexp.MustCompile(`(?i)c(\d+)`)
	battalion   = regexp.MustCompile(`(?i)d(\d+)`)
)

// CleanDiagnosis turns the working diagnosis into the finalized wording for
// the paper: the fever prefix and the trailing day marker (e.g. "N2") are
// dropped and the first letter is capitalized.
func CleanDiagnosis(d string) string {
	if d == "" {
		return ""
	}
	cleaned := feverPrefix.ReplaceAllString(d, "")
	cleaned = dayMarker.ReplaceAllString(cleaned, "")
	runes := []rune(cleaned)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return strings.TrimSpace(string(runes))
}

// ExpandUnit rewrites compact unit codes into full wording for documents,
// e.g. "c12-d8" becomes "Đại đội 12 - Tiểu đoàn 8".
func ExpandUnit(unit string) string {
	out := companyCode.ReplaceAllString(unit, "Đại đội $1")
	out = battalion.ReplaceAllString(out, "Tiểu đoàn $1")
	return strings.ReplaceAll(out, "-", " - ")
}

// OpenDefaults returns the record to present when staff open discharge
// editing. An existing record is returned verbatim; otherwise defaults are
// derived from the patient's diagnosis and the paper-number hint.
func OpenDefaults(p roster.Patient, nextPaperNumberHint string) roster.DischargeRecord {
	if p.Discharge != nil {
		return *p.Discharge
	}

	rec := roster.DischargeRecord{
		PaperNumber:   nextPaperNumberHint,
		DischargeDate: time.Now().Format("2006-01-02"),
		Discipline:    defaultDiscipline,
		Rank:          MapRank(p.Rank),
		Role:          MapRole(p.Role),
		Diagnosis:     CleanDiagnosis(p.Diagnosis),
	}

	d := strings.ToLower(p.Diagnosis)
	if strings.Contains(d, "sốt") {
		rec.Meds = medsFever
	} else {
		rec.Meds = medsGeneric
	}

	switch {
	case strings.Contains(d, "họng") && strings.Contains(d, "sốt"):
		rec.Condition = conditionThroatFever
	case strings.Contains(d, "amydal") || strings.Contains(d, "amidan"):
		rec.Condition = conditionTonsils
	default:
		rec.Condition = conditionGeneric
	}

	return rec
}

// NextPaperNumber scans every existing discharge record's paper number and
// returns max+1, zero-padded to at least two digits. Non-numeric and absent
// numbers contribute 0. Always recomputed: any record may have been
// renumbered since the last call.
func NextPaperNumber(patients []roster.Patient) string {
	max := 0
	for _, p := range patients {
		if p.Discharge == nil {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(p.Discharge.PaperNumber)); err == nil && n > max {
			max = n
		}
	}
	next := strconv.Itoa(max + 1)
	if len(next) < 2 {
		next = "0" + next
	}
	return next
}

// Save replaces the patient's discharge record wholesale.
func Save(store *roster.Store, id string, rec roster.DischargeRecord) bool {
	return store.UpdateFields(id, roster.FieldPatch{Discharge: &rec})
}

// SortForExport orders patients for batch paper export: numeric paper number
// ascending, with non-numeric or missing numbers last, ties broken by name.
// The input slice is not modified.
func SortForExport(patients []roster.Patient) []roster.Patient {
	out := make([]roster.Patient, len(patients))
	copy(out, patients)
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := paperSortKey(out[i]), paperSortKey(out[j])
		if ni != nj {
			return ni < nj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// paperSortKey treats unparsable paper numbers as the largest value so they
// sort after every real number.
func paperSortKey(p roster.Patient) int {
	if p.Discharge == nil {
		return int(^uint(0) >> 1)
	}
	n, err := strconv.Atoi(strings.TrimSpace(p.Discharge.PaperNumber))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
