package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageText(t *testing.T) {
	body := `<!DOCTYPE html>
<html><head><title>Loja</title><style>.a{color:red}</style></head>
<body>
  <script>var phone = "(11) 4100-9999";</script>
  <div>Fale conosco</div><div>vendas@loja.com.br</div>
  <a href="mailto:sac@loja.com.br?subject=Oi">email</a>
  <a href="tel:+551141001000">ligar</a>
  <a href="https://www.instagram.com/loja">insta</a>
  <a href="#top">topo</a>
  <noscript>ative o javascript</noscript>
</body></html>`

	text := PageText(body)

	assert.Contains(t, text, "Fale conosco\nvendas@loja.com.br")
	assert.Contains(t, text, "sac@loja.com.br")
	assert.NotContains(t, text, "subject=")
	assert.Contains(t, text, "+551141001000")
	assert.Contains(t, text, "https://www.instagram.com/loja")
	assert.NotContains(t, text, "4100-9999")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "ative o javascript")
	assert.NotContains(t, text, "#top")
}

func TestPageText_PlainTextPassesThrough(t *testing.T) {
	body := "contato@loja.com.br\n(11) 4100-1000"
	assert.Equal(t, body, PageText(body))
}

func TestPageText_Empty(t *testing.T) {
	assert.Equal(t, "", PageText(""))
}
