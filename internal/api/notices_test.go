package api

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotices(t *testing.T) {
	body := []byte(`<html><body>
<div class="alert alert-danger">
  <i class="fa fa-warning"></i> Wrong   password
</div>
<div class="alert alert-success">Saved</div>
<p class="alert-dangerous">not a notice</p>
</body></html>`)

	assert.Equal(t, []string{"Wrong password"}, notices(body, errorNoticeClass))
	assert.Equal(t, []string{"Saved"}, notices(body, successNoticeClass))
	assert.Empty(t, notices([]byte("<p>ok</p>"), errorNoticeClass))
}

func TestIDFromLinks(t *testing.T) {
	body := []byte(`<table>
<tr><td><a href="/admin/?app=geo_zones&amp;doc=edit_geo_zone&amp;geo_zone_id=3">Nordics</a></td></tr>
<tr><td><a href="?app=geo_zones&amp;doc=edit_geo_zone&amp;geo_zone_id=4"> Baltics </a></td></tr>
<tr><td><a href="/admin/?app=geo_zones&amp;doc=edit_geo_zone&amp;geo_zone_id=5">Baltics</a></td></tr>
</table>`)
	base, _ := url.Parse("http://bo.test/admin/?app=geo_zones&doc=geo_zones")

	assert.Equal(t, "3", idFromLinks(body, base, "geo_zone_id", "Nordics"))
	assert.Equal(t, "4", idFromLinks(body, base, "geo_zone_id", "Baltics"), "first link wins")
	assert.Equal(t, "", idFromLinks(body, base, "geo_zone_id", "Iberia"))
	assert.Equal(t, "", idFromLinks(body, base, "product_id", "Nordics"))
}
