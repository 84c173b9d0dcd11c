package main

import "github.com/tipline/tipline/internal/pkg/models"

type seedTeam struct {
	Name    string
	Abbr    string
	Aliases []string
}

// Curated team lists for US leagues. The full team name and every alias are
// written lowercase into team_aliases; football is not seeded, its teams are
// auto-created from raw names.
var curated = map[string][]seedTeam{
	models.SportBasketball: {
		{"Atlanta Hawks", "ATL", []string{"atlanta", "hawks"}},
		{"Boston Celtics", "BOS", []string{"boston", "celtics"}},
		{"Brooklyn Nets", "BKN", []string{"brooklyn", "nets"}},
		{"Charlotte Hornets", "CHA", []string{"charlotte", "hornets"}},
		{"Chicago Bulls", "CHI", []string{"chicago", "bulls"}},
		{"Cleveland Cavaliers", "CLE", []string{"cleveland", "cavaliers", "cavs"}},
		{"Dallas Mavericks", "DAL", []string{"dallas", "mavericks", "mavs"}},
		{"Denver Nuggets", "DEN", []string{"denver", "nuggets"}},
		{"Detroit Pistons", "DET", []string{"detroit", "pistons"}},
		{"Golden State Warriors", "GSW", []string{"golden state", "warriors"}},
		{"Houston Rockets", "HOU", []string{"houston", "rockets"}},
		{"Indiana Pacers", "IND", []string{"indiana", "pacers"}},
		{"Los Angeles Clippers", "LAC", []string{"la clippers", "clippers"}},
		{"Los Angeles Lakers", "LAL", []string{"la lakers", "lakers"}},
		{"Memphis Grizzlies", "MEM", []string{"memphis", "grizzlies"}},
		{"Miami Heat", "MIA", []string{"miami", "heat"}},
		{"Milwaukee Bucks", "MIL", []string{"milwaukee", "bucks"}},
		{"Minnesota Timberwolves", "MIN", []string{"minnesota", "timberwolves", "wolves"}},
		{"New Orleans Pelicans", "NOP", []string{"new orleans", "pelicans"}},
		{"New York Knicks", "NYK", []string{"new york", "knicks"}},
		{"Oklahoma City Thunder", "OKC", []string{"oklahoma city", "thunder"}},
		{"Orlando Magic", "ORL", []string{"orlando", "magic"}},
		{"Philadelphia 76ers", "PHI", []string{"philadelphia", "76ers", "sixers"}},
		{"Phoenix Suns", "PHX", []string{"phoenix", "suns"}},
		{"Portland Trail Blazers", "POR", []string{"portland", "trail blazers", "blazers"}},
		{"Sacramento Kings", "SAC", []string{"sacramento", "kings"}},
		{"San Antonio Spurs", "SAS", []string{"san antonio", "spurs"}},
		{"Toronto Raptors", "TOR", []string{"toronto", "raptors"}},
		{"Utah Jazz", "UTA", []string{"utah", "jazz"}},
		{"Washington Wizards", "WAS", []string{"washington", "wizards"}},
	},
	models.SportNFL: {
		{"Arizona Cardinals", "ARI", []string{"arizona", "cardinals"}},
		{"Atlanta Falcons", "ATL", []string{"atlanta", "falcons"}},
		{"Baltimore Ravens", "BAL", []string{"baltimore", "ravens"}},
		{"Buffalo Bills", "BUF", []string{"buffalo", "bills"}},
		{"Carolina Panthers", "CAR", []string{"carolina", "panthers"}},
		{"Chicago Bears", "CHI", []string{"chicago", "bears"}},
		{"Cincinnati Bengals", "CIN", []string{"cincinnati", "bengals"}},
		{"Cleveland Browns", "CLE", []string{"cleveland", "browns"}},
		{"Dallas Cowboys", "DAL", []string{"dallas", "cowboys"}},
		{"Denver Broncos", "DEN", []string{"denver", "broncos"}},
		{"Detroit Lions", "DET", []string{"detroit", "lions"}},
		{"Green Bay Packers", "GB", []string{"green bay", "packers"}},
		{"Houston Texans", "HOU", []string{"houston", "texans"}},
		{"Indianapolis Colts", "IND", []string{"indianapolis", "colts"}},
		{"Jacksonville Jaguars", "JAX", []string{"jacksonville", "jaguars"}},
		{"Kansas City Chiefs", "KC", []string{"kansas city", "chiefs"}},
		{"Las Vegas Raiders", "LV", []string{"las vegas", "raiders"}},
		{"Los Angeles Chargers", "LAC", []string{"la chargers", "chargers"}},
		{"Los Angeles Rams", "LAR", []string{"la rams", "rams"}},
		{"Miami Dolphins", "MIA", []string{"miami", "dolphins"}},
		{"Minnesota Vikings", "MIN", []string{"minnesota", "vikings"}},
		{"New England Patriots", "NE", []string{"new england", "patriots"}},
		{"New Orleans Saints", "NO", []string{"new orleans", "saints"}},
		{"New York Giants", "NYG", []string{"ny giants", "giants"}},
		{"New York Jets", "NYJ", []string{"ny jets", "jets"}},
		{"Philadelphia Eagles", "PHI", []string{"philadelphia", "eagles"}},
		{"Pittsburgh Steelers", "PIT", []string{"pittsburgh", "steelers"}},
		{"San Francisco 49ers", "SF", []string{"san francisco", "49ers", "niners"}},
		{"Seattle Seahawks", "SEA", []string{"seattle", "seahawks"}},
		{"Tampa Bay Buccaneers", "TB", []string{"tampa bay", "buccaneers", "bucs"}},
		{"Tennessee Titans", "TEN", []string{"tennessee", "titans"}},
		{"Washington Commanders", "WSH", []string{"washington", "commanders"}},
	},
	models.SportBaseball: {
		{"Arizona Diamondbacks", "ARI", []string{"arizona", "diamondbacks", "dbacks"}},
		{"Atlanta Braves", "ATL", []string{"atlanta", "braves"}},
		{"Baltimore Orioles", "BAL", []string{"baltimore", "orioles"}},
		{"Boston Red Sox", "BOS", []string{"boston", "red sox"}},
		{"Chicago Cubs", "CHC", []string{"cubs"}},
		{"Chicago White Sox", "CWS", []string{"white sox"}},
		{"Cincinnati Reds", "CIN", []string{"cincinnati", "reds"}},
		{"Cleveland Guardians", "CLE", []string{"cleveland", "guardians"}},
		{"Colorado Rockies", "COL", []string{"colorado", "rockies"}},
		{"Detroit Tigers", "DET", []string{"detroit", "tigers"}},
		{"Houston Astros", "HOU", []string{"houston", "astros"}},
		{"Kansas City Royals", "KC", []string{"kansas city", "royals"}},
		{"Los Angeles Angels", "LAA", []string{"la angels", "angels"}},
		{"Los Angeles Dodgers", "LAD", []string{"la dodgers", "dodgers"}},
		{"Miami Marlins", "MIA", []string{"miami", "marlins"}},
		{"Milwaukee Brewers", "MIL", []string{"milwaukee", "brewers"}},
		{"Minnesota Twins", "MIN", []string{"minnesota", "twins"}},
		{"New York Mets", "NYM", []string{"ny mets", "mets"}},
		{"New York Yankees", "NYY", []string{"ny yankees", "yankees"}},
		{"Oakland Athletics", "OAK", []string{"oakland", "athletics", "as"}},
		{"Philadelphia Phillies", "PHI", []string{"philadelphia", "phillies"}},
		{"Pittsburgh Pirates", "PIT", []string{"pittsburgh", "pirates"}},
		{"San Diego Padres", "SD", []string{"san diego", "padres"}},
		{"San Francisco Giants", "SF", []string{"sf giants", "giants"}},
		{"Seattle Mariners", "SEA", []string{"seattle", "mariners"}},
		{"St. Louis Cardinals", "STL", []string{"st louis", "cardinals"}},
		{"Tampa Bay Rays", "TB", []string{"tampa bay", "rays"}},
		{"Texas Rangers", "TEX", []string{"texas", "rangers"}},
		{"Toronto Blue Jays", "TOR", []string{"toronto", "blue jays"}},
		{"Washington Nationals", "WSH", []string{"washington", "nationals", "nats"}},
	},
	models.SportHockey: {
		{"Anaheim Ducks", "ANA", []string{"anaheim", "ducks"}},
		{"Boston Bruins", "BOS", []string{"boston", "bruins"}},
		{"Buffalo Sabres", "BUF", []string{"buffalo", "sabres"}},
		{"Calgary Flames", "CGY", []string{"calgary", "flames"}},
		{"Carolina Hurricanes", "CAR", []string{"carolina", "hurricanes", "canes"}},
		{"Chicago Blackhawks", "CHI", []string{"chicago", "blackhawks"}},
		{"Colorado Avalanche", "COL", []string{"colorado", "avalanche", "avs"}},
		{"Columbus Blue Jackets", "CBJ", []string{"columbus", "blue jackets"}},
		{"Dallas Stars", "DAL", []string{"dallas", "stars"}},
		{"Detroit Red Wings", "DET", []string{"detroit", "red wings"}},
		{"Edmonton Oilers", "EDM", []string{"edmonton", "oilers"}},
		{"Florida Panthers", "FLA", []string{"florida", "panthers"}},
		{"Los Angeles Kings", "LAK", []string{"la kings", "kings"}},
		{"Minnesota Wild", "MIN", []string{"minnesota", "wild"}},
		{"Montreal Canadiens", "MTL", []string{"montreal", "canadiens", "habs"}},
		{"Nashville Predators", "NSH", []string{"nashville", "predators", "preds"}},
		{"New Jersey Devils", "NJD", []string{"new jersey", "devils"}},
		{"New York Islanders", "NYI", []string{"ny islanders", "islanders"}},
		{"New York Rangers", "NYR", []string{"ny rangers", "rangers"}},
		{"Ottawa Senators", "OTT", []string{"ottawa", "senators", "sens"}},
		{"Philadelphia Flyers", "PHI", []string{"philadelphia", "flyers"}},
		{"Pittsburgh Penguins", "PIT", []string{"pittsburgh", "penguins", "pens"}},
		{"San Jose Sharks", "SJS", []string{"san jose", "sharks"}},
		{"Seattle Kraken", "SEA", []string{"seattle", "kraken"}},
		{"St. Louis Blues", "STL", []string{"st louis", "blues"}},
		{"Tampa Bay Lightning", "TBL", []string{"tampa bay", "lightning", "bolts"}},
		{"Toronto Maple Leafs", "TOR", []string{"toronto", "maple leafs", "leafs"}},
		{"Utah Hockey Club", "UTA", []string{"utah"}},
		{"Vancouver Canucks", "VAN", []string{"vancouver", "canucks"}},
		{"Vegas Golden Knights", "VGK", []string{"vegas", "golden knights"}},
		{"Washington Capitals", "WSH", []string{"washington", "capitals", "caps"}},
		{"Winnipeg Jets", "WPG", []string{"winnipeg", "jets"}},
	},
}
