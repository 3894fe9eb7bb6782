package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func contextFor(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestFromRequestDefaults(t *testing.T) {
	p := FromRequest(contextFor("/api/recipes"))
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("expected defaults, got %+v", p)
	}
}

func TestFromRequestClampsLimit(t *testing.T) {
	p := FromRequest(contextFor("/api/recipes?page=3&limit=1000"))
	if p.Page != 3 || p.Limit != MaxLimit {
		t.Fatalf("unexpected params %+v", p)
	}
	if p.Offset() != 2*MaxLimit {
		t.Fatalf("offset = %d", p.Offset())
	}
}

func TestFromRequestIgnoresGarbage(t *testing.T) {
	p := FromRequest(contextFor("/api/recipes?page=abc&limit=-4"))
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("expected defaults, got %+v", p)
	}
}

func TestNewPageLinks(t *testing.T) {
	c := contextFor("/api/recipes?page=2&limit=2&author=5")
	p := FromRequest(c)

	page := NewPage(c, p, 5, []int{3, 4})

	if page.Next == nil || *page.Next != "http://example.com/api/recipes?author=5&limit=2&page=3" {
		t.Fatalf("unexpected next %v", page.Next)
	}
	if page.Previous == nil || *page.Previous != "http://example.com/api/recipes?author=5&limit=2" {
		t.Fatalf("unexpected previous %v", page.Previous)
	}
}

func TestNewPageLastPage(t *testing.T) {
	c := contextFor("/api/users?page=1")
	page := NewPage[int](c, FromRequest(c), 3, nil)

	if page.Next != nil || page.Previous != nil {
		t.Fatalf("expected no links, got next=%v previous=%v", page.Next, page.Previous)
	}
	if page.Results == nil || len(page.Results) != 0 {
		t.Fatalf("expected empty non-nil results")
	}
}
