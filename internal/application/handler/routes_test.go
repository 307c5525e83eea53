package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investogun/internal/application/form"
	"investogun/internal/application/models"
	"investogun/internal/blob"
	"investogun/internal/session"
	"investogun/pkg/testutil"
)

func draftCookie(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no draft cookie issued")
	return nil
}

func TestRequireDraftReplacesInvalidCookie(t *testing.T) {
	router, _ := newRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/api/application")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "not-a-token"})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	resp := testutil.UnmarshalResponse[ApplicationResponse](t, rr)
	assert.Len(t, resp.Application.Contacts.Directors, 5)
	assert.Equal(t, "https://", resp.Application.Company.CompanyWebsite)
}

func TestKnownCookieKeepsDraft(t *testing.T) {
	router, _ := newRouter(t)
	cookie := draftCookie(t, router)

	req := testutil.NewFormRequest(t, "/form", url.Values{"company.sector_industry": {"Agriculture"}})
	req.AddCookie(cookie)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusSeeOther)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Empty(t, rr.Result().Cookies(), "no new cookie for an existing draft")

	req = testutil.NewRequest(t, http.MethodGet, "/api/application")
	req.AddCookie(cookie)
	resp := testutil.UnmarshalResponse[ApplicationResponse](t, testutil.DoRequest(router, req))
	assert.Equal(t, "Agriculture", resp.Application.Company.SectorIndustry)
}

func TestAgingCookieIsReissuedForSameDraft(t *testing.T) {
	router, _ := newRouter(t)
	cookie := draftCookie(t, router)

	req := testutil.NewRequest(t, http.MethodGet, "/api/application")
	req.AddCookie(cookie)
	first := testutil.UnmarshalResponse[ApplicationResponse](t, testutil.DoRequest(router, req))

	// Same signing key, but only ten minutes left of the hour-long session.
	draftID, err := session.NewManager("test-key", time.Hour, false).Validate(cookie.Value)
	require.NoError(t, err)
	aging, err := session.NewManager("test-key", 10*time.Minute, false).Issue(draftID)
	require.NoError(t, err)

	req = testutil.NewFormRequest(t, "/form", url.Values{"company.name_or_promoter": {"Still Typing Ltd"}})
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: aging})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusSeeOther)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1, "aging cookie is reissued")
	assert.Equal(t, 3600, cookies[0].MaxAge)
	renewedID, err := session.NewManager("test-key", time.Hour, false).Validate(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, draftID, renewedID)

	req = testutil.NewRequest(t, http.MethodGet, "/api/application")
	req.AddCookie(cookies[0])
	resp := testutil.UnmarshalResponse[ApplicationResponse](t, testutil.DoRequest(router, req))
	assert.Equal(t, first.DraftID, resp.DraftID)
	assert.Equal(t, "Still Typing Ltd", resp.Application.Company.NameOrPromoter)
}

// brokenBlobs refuses every write.
type brokenBlobs struct{ blob.Store }

func (brokenBlobs) Put(context.Context, string, io.Reader, blob.PutOptions) (blob.Info, error) {
	return blob.Info{}, errors.New("bucket unavailable")
}

func (brokenBlobs) Delete(context.Context, string) error { return nil }

func TestFailedUploadRendersSavedFields(t *testing.T) {
	router, _ := newRouterWithBlobs(t, brokenBlobs{Store: blob.NewMemory()})
	cookie := draftCookie(t, router)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("company.name_or_promoter", "Still Here Ltd"))
	part, err := mw.CreateFormFile(string(form.AttachmentBusinessPlan), "plan.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/form", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
	assert.Contains(t, rr.Body.String(), `value="Still Here Ltd"`)
}

func TestFormUploadRedirects(t *testing.T) {
	router, _ := newRouter(t)
	cookie := draftCookie(t, router)

	req := testutil.NewMultipartRequest(t, "/form/attachments/company_profile_files", "files", map[string][]byte{
		"profile.pdf": []byte("%PDF"),
	})
	req.AddCookie(cookie)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusSeeOther)

	req = testutil.NewRequest(t, http.MethodGet, "/api/application")
	req.AddCookie(cookie)
	resp := testutil.UnmarshalResponse[ApplicationResponse](t, testutil.DoRequest(router, req))
	require.Len(t, resp.Application.Attachments.CompanyProfileFiles, 1)
	assert.Equal(t, "profile.pdf", resp.Application.Attachments.CompanyProfileFiles[0].FileName)
}

func TestAPIErrors(t *testing.T) {
	router, _ := newRouter(t)
	cookie := draftCookie(t, router)

	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{
			name:   "unknown field path",
			req:    testutil.NewJSONRequest(t, http.MethodPatch, "/api/application", UpdateFieldsRequest{Fields: map[string]string{"company.ceo": "x"}}),
			status: http.StatusBadRequest,
			code:   "validation_error",
		},
		{
			name:   "blank service",
			req:    testutil.NewJSONRequest(t, http.MethodPost, "/api/application/services/toggle", ToggleServiceRequest{Service: "  "}),
			status: http.StatusBadRequest,
			code:   "validation_error",
		},
		{
			name:   "service not offered",
			req:    testutil.NewJSONRequest(t, http.MethodPost, "/api/application/services/toggle", ToggleServiceRequest{Service: "Catering"}),
			status: http.StatusBadRequest,
			code:   "validation_error",
		},
		{
			name:   "row out of range",
			req:    testutil.NewRequest(t, http.MethodDelete, "/api/application/lists/shareholders/9"),
			status: http.StatusBadRequest,
			code:   "validation_error",
		},
		{
			name:   "upload without files",
			req:    testutil.NewMultipartRequest(t, "/api/application/attachments/business_plan_files", "files", nil),
			status: http.StatusBadRequest,
			code:   "validation_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.AddCookie(cookie)
			rr := testutil.DoRequest(router, tt.req)
			testutil.AssertStatusAndError(t, rr, tt.status, tt.code)
		})
	}
}

func TestSubmitResponseStatus(t *testing.T) {
	router, in := newRouter(t)
	cookie := draftCookie(t, router)

	req := testutil.NewRequest(t, http.MethodPost, "/api/application/submit")
	req.AddCookie(cookie)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, models.SubmissionSuccess, testutil.UnmarshalResponse[SubmitResponse](t, rr).Status)

	in.respondWith(http.StatusServiceUnavailable)
	req = testutil.NewRequest(t, http.MethodPost, "/api/application/submit")
	req.AddCookie(cookie)
	rr = testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, models.SubmissionError, testutil.UnmarshalResponse[SubmitResponse](t, rr).Status)
}
