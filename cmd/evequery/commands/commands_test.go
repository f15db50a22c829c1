package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	characterIDBody = `<eveapi version="2">
  <currentTime>2011-09-20 12:00:00</currentTime>
  <result>
    <rowset name="characters" key="characterID" columns="name,characterID">
      <row name="CCP Garthagk" characterID="797400947" />
      <row name="Jita" characterID="0" />
    </rowset>
  </result>
  <cachedUntil>2011-09-20 12:00:00</cachedUntil>
</eveapi>`

	allianceListBody = `<eveapi version="2">
  <currentTime>2011-09-20 12:00:00</currentTime>
  <result>
    <rowset name="alliances" key="allianceID" columns="name,shortName,allianceID,executorCorpID,memberCount,startDate">
      <row name="Everto Rex Regis" shortName="666" allianceID="99000006" executorCorpID="98000001" memberCount="1" startDate="2010-11-04 13:11:00">
        <rowset name="memberCorporations" key="corporationID" columns="corporationID,startDate">
          <row corporationID="98000001" startDate="2010-11-04 13:11:00" />
        </rowset>
      </row>
      <row name="Second Alliance" shortName="TWO" allianceID="99000007" executorCorpID="0" memberCount="0" startDate="2010-11-05 10:00:00">
        <rowset name="memberCorporations" key="corporationID" columns="corporationID,startDate" />
      </row>
    </rowset>
  </result>
  <cachedUntil>2011-09-20 12:00:00</cachedUntil>
</eveapi>`

	errorBody = `<eveapi version="2">
  <currentTime>2011-09-20 12:00:00</currentTime>
  <error code="105">Invalid characterID.</error>
  <cachedUntil>2011-09-20 12:00:00</cachedUntil>
</eveapi>`
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENABLE_TELEMETRY", "false")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/eve/CharacterID.xml.aspx":
			fmt.Fprint(w, characterIDBody)
		case "/eve/AllianceList.xml.aspx":
			fmt.Fprint(w, allianceListBody)
		case "/eve/CharacterInfo.xml.aspx":
			fmt.Fprint(w, errorBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--base-url", server.URL, "--compact"}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestIDsCommand(t *testing.T) {
	out, err := execute(t, "ids", "CCP Garthagk", "Jita")
	require.NoError(t, err)
	assert.JSONEq(t, `{"CCP Garthagk":797400947,"Jita":null}`, out)
}

func TestIDCommand(t *testing.T) {
	out, err := execute(t, "id", "ccp garthagk")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ccp garthagk","character_id":797400947}`, out)
}

func TestAlliancesCommand(t *testing.T) {
	out, err := execute(t, "alliances", "--id", "99000006")
	require.NoError(t, err)
	assert.Contains(t, out, `"99000006"`)
	assert.Contains(t, out, `"ticker":"666"`)
	assert.NotContains(t, out, `"99000007"`)
}

func TestCharacterCommandReportsAPIError(t *testing.T) {
	_, err := execute(t, "character", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "105")
}

func TestCharacterCommandRejectsInvalidID(t *testing.T) {
	_, err := execute(t, "character", "abc")
	assert.EqualError(t, err, `invalid character ID "abc"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, `"version":"dev"`)
	assert.Contains(t, out, `"go_version"`)
}
