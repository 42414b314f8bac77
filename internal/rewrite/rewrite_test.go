package rewrite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"NewsImporter/internal/config"
)

const longBody = "Qeveria miratoi sot paketën e re fiskale. Ndryshimet hyjnë në fuqi nga janari. " +
	"Bizneset e vogla përfitojnë ulje tatimi. Opozita e kundërshtoi vendimin në seancë. " +
	"Analistët presin efekte të ndjeshme në treg. Ministria premtoi monitorim të zbatimit."

func TestTemplateRewriteBuildsSections(t *testing.T) {
	t.Parallel()

	r := NewTemplateRewriter("Gazeta Jonë")
	title, body := r.Rewrite(context.Background(), "Paketa e re fiskale miratohet", longBody)

	require.Contains(t, title, "Paketa e re fiskale miratohet")
	require.Contains(t, body, "<strong>Qeveria miratoi sot paketën e re fiskale.</strong>")
	require.Contains(t, body, "<h3>Detajet Kryesore</h3>")
	require.Contains(t, body, "<h3>Konteksti</h3>")
	require.Contains(t, body, "<h3>Përfundim</h3>")
	require.Contains(t, body, "Gazeta Jonë")
}

func TestTemplateRewriteAmplifiesControversialTitles(t *testing.T) {
	t.Parallel()

	r := NewTemplateRewriter("")
	title, _ := r.Rewrite(context.Background(), "Skandal në bashkinë e qytetit", longBody)
	require.True(t, strings.HasPrefix(title, "EKSKLUZIVE: "))

	// Already-amplified titles are not double-prefixed.
	again, _ := r.Rewrite(context.Background(), title, longBody)
	require.Equal(t, 1, strings.Count(again, "EKSKLUZIVE:"))
}

func TestTemplateRewriteAddsTerminalPunctuation(t *testing.T) {
	t.Parallel()

	r := NewTemplateRewriter("")
	title, _ := r.Rewrite(context.Background(), "Lajm i qetë pa pikë", longBody)
	require.True(t, strings.HasSuffix(title, "!"))

	kept, _ := r.Rewrite(context.Background(), "A do të ndodhë vërtet?", longBody)
	require.True(t, strings.HasSuffix(kept, "?"))
}

func TestTemplateRewriteIsFailSafeOnUnsplittableBody(t *testing.T) {
	t.Parallel()

	r := NewTemplateRewriter("Gazeta Jonë")
	body := "tekst pa asnjë shenjë pikësimi"
	_, got := r.Rewrite(context.Background(), "Titull", body)
	require.Equal(t, body, got)
}

func TestTemplateRewriteOmitsFooterWithoutAttribution(t *testing.T) {
	t.Parallel()

	r := NewTemplateRewriter("")
	_, body := r.Rewrite(context.Background(), "Titull", longBody)
	require.NotContains(t, body, "publikuar nga")
}

func TestLLMRewriteParsesFixedShape(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"Titulli i ri\",\"content\":\"Përmbajtja e rishkruar e artikullit.\"}"}}]}`))
	}))
	defer server.Close()

	r := NewLLMRewriter(config.OpenAIConfig{
		Endpoint: server.URL,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	}, nil)

	title, body := r.Rewrite(context.Background(), "Titulli origjinal", "Trupi origjinal.")
	require.Equal(t, "Titulli i ri", title)
	require.Equal(t, "Përmbajtja e rishkruar e artikullit.", body)
}

func TestLLMRewriteFallsBackOnServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := NewLLMRewriter(config.OpenAIConfig{
		Endpoint: server.URL,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	}, nil)

	title, body := r.Rewrite(context.Background(), "Origjinal", "Trupi origjinal.")
	require.Equal(t, "Origjinal", title)
	require.Equal(t, "Trupi origjinal.", body)
}

func TestLLMRewriteFallsBackOnMalformedResult(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"not json at all"}}]}`))
	}))
	defer server.Close()

	r := NewLLMRewriter(config.OpenAIConfig{
		Endpoint: server.URL,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	}, nil)

	title, body := r.Rewrite(context.Background(), "Origjinal", "Trupi origjinal.")
	require.Equal(t, "Origjinal", title)
	require.Equal(t, "Trupi origjinal.", body)
}

func TestLLMRewriteFallsBackWhenMisconfigured(t *testing.T) {
	t.Parallel()

	r := NewLLMRewriter(config.OpenAIConfig{}, nil)
	title, body := r.Rewrite(context.Background(), "Origjinal", "Trupi origjinal.")
	require.Equal(t, "Origjinal", title)
	require.Equal(t, "Trupi origjinal.", body)
}
