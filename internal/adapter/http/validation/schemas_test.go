package validation

import (
	"net/url"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"taskapp/internal/core/domain"
)

func TestParseListQueryDefaults(t *testing.T) {
	g := NewWithT(t)

	filter, appErr := ParseListQuery(url.Values{})

	g.Expect(appErr).To(BeNil())
	g.Expect(filter.Page).To(Equal(1))
	g.Expect(filter.Limit).To(Equal(20))
	g.Expect(filter.Query).To(BeEmpty())
	g.Expect(filter.Status).To(BeEmpty())
	g.Expect(filter.From).To(BeNil())
}

func TestParseListQueryFull(t *testing.T) {
	g := NewWithT(t)

	values := url.Values{}
	values.Set("page", "3")
	values.Set("limit", "50")
	values.Set("q", "  groceries ")
	values.Set("status", "doing")
	values.Set("priority", "high")
	values.Set("from", "2026-01-01")
	values.Set("to", "2026-02-01T12:00:00Z")

	filter, appErr := ParseListQuery(values)

	g.Expect(appErr).To(BeNil())
	g.Expect(filter.Page).To(Equal(3))
	g.Expect(filter.Limit).To(Equal(50))
	g.Expect(filter.Query).To(Equal("groceries"))
	g.Expect(filter.Status).To(Equal(domain.StatusDoing))
	g.Expect(filter.Priority).To(Equal(domain.PriorityHigh))
	g.Expect(*filter.From).To(Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	g.Expect(*filter.To).To(Equal(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)))
}

func TestParseListQueryCollectsAllViolations(t *testing.T) {
	g := NewWithT(t)

	values := url.Values{}
	values.Set("page", "zero")
	values.Set("limit", "500")
	values.Set("status", "archived")
	values.Set("bogus", "1")

	_, appErr := ParseListQuery(values)

	g.Expect(appErr).NotTo(BeNil())
	g.Expect(appErr.Code).To(Equal("VALIDATION_ERROR"))
	g.Expect(appErr.Status).To(Equal(400))
	g.Expect(appErr.Details).To(HaveLen(4))

	paths := make([]string, 0, len(appErr.Details))
	for _, detail := range appErr.Details {
		paths = append(paths, detail.Path)
	}

	g.Expect(paths).To(ConsistOf("page", "limit", "status", "bogus"))
}

func TestParseListQueryRejectsInvertedRange(t *testing.T) {
	g := NewWithT(t)

	values := url.Values{}
	values.Set("from", "2026-03-01")
	values.Set("to", "2026-02-01")

	_, appErr := ParseListQuery(values)

	g.Expect(appErr).NotTo(BeNil())
	g.Expect(appErr.Details).To(HaveLen(1))
	g.Expect(appErr.Details[0].Path).To(Equal("to"))
}

func TestParseListQueryRejectsBlankQuery(t *testing.T) {
	g := NewWithT(t)

	values := url.Values{}
	values.Set("q", "   ")

	_, appErr := ParseListQuery(values)

	g.Expect(appErr).NotTo(BeNil())
	g.Expect(appErr.Details[0].Path).To(Equal("q"))
}

func TestParseListQueryPageBelowMinimum(t *testing.T) {
	g := NewWithT(t)

	values := url.Values{}
	values.Set("page", "0")

	_, appErr := ParseListQuery(values)

	g.Expect(appErr).NotTo(BeNil())
	g.Expect(appErr.Details[0].Type).To(Equal("min"))
}

func TestDateTimeUnmarshalFormats(t *testing.T) {
	g := NewWithT(t)

	var d DateTime
	g.Expect(d.UnmarshalJSON([]byte(`"2026-09-15"`))).To(Succeed())
	g.Expect(d.Time).To(Equal(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)))

	var stamped DateTime
	g.Expect(stamped.UnmarshalJSON([]byte(`"2026-09-15T08:30:00Z"`))).To(Succeed())
	g.Expect(stamped.Time.Hour()).To(Equal(8))

	var bad DateTime
	g.Expect(bad.UnmarshalJSON([]byte(`"next tuesday"`))).NotTo(Succeed())
}

func TestDateTimeRejectsEmptyString(t *testing.T) {
	g := NewWithT(t)

	var empty DateTime
	g.Expect(empty.UnmarshalJSON([]byte(`""`))).NotTo(Succeed())

	var quotedNull DateTime
	g.Expect(quotedNull.UnmarshalJSON([]byte(`"null"`))).NotTo(Succeed())
}

func TestParseTaskID(t *testing.T) {
	g := NewWithT(t)

	uid, appErr := ParseTaskID("0d4cfe0a-8a90-4a24-a225-1e9f6ed1f341")
	g.Expect(appErr).To(BeNil())
	g.Expect(uid.String()).To(Equal("0d4cfe0a-8a90-4a24-a225-1e9f6ed1f341"))

	_, appErr = ParseTaskID("not-a-uuid")
	g.Expect(appErr).NotTo(BeNil())
	g.Expect(appErr.Code).To(Equal("INVALID_ID"))
	g.Expect(appErr.Status).To(Equal(400))
}
