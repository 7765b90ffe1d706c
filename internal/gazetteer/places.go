package gazetteer

// knownPlaces maps folded place names to approximate (lat, lon).
// Alternate historical names point at the same coordinates.
var knownPlaces = map[string][2]float64{
	"москва":             {55.7558, 37.6173},
	"санкт-петербург":    {59.9343, 30.3351},
	"петербург":          {59.9343, 30.3351},
	"с.-петербург":       {59.9343, 30.3351},
	"с-петербург":        {59.9343, 30.3351},
	"спб":                {59.9343, 30.3351},
	"петроград":          {59.9343, 30.3351},
	"ленинград":          {59.9343, 30.3351},
	"рязань":             {54.6269, 39.6916},
	"тула":               {54.1931, 37.6173},
	"калуга":             {54.5138, 36.2612},
	"тверь":              {56.8587, 35.9176},
	"калинин":            {56.8587, 35.9176},
	"ярославль":          {57.6261, 39.8845},
	"кострома":           {57.7677, 40.9264},
	"владимир":           {56.1290, 40.4066},
	"иваново":            {57.0003, 40.9739},
	"иваново-вознесенск": {57.0003, 40.9739},
	"нижний новгород":    {56.2965, 43.9361},
	"горький":            {56.2965, 43.9361},
	"новгород":           {58.5215, 31.2755},
	"великий новгород":   {58.5215, 31.2755},
	"псков":              {57.8194, 28.3318},
	"смоленск":           {54.7818, 32.0401},
	"брянск":             {53.2436, 34.3634},
	"орел":               {52.9703, 36.0635},
	"курск":              {51.7304, 36.1926},
	"воронеж":            {51.6720, 39.1843},
	"тамбов":             {52.7212, 41.4523},
	"липецк":             {52.6088, 39.5992},
	"пенза":              {53.1950, 45.0183},
	"саратов":            {51.5331, 46.0342},
	"самара":             {53.1959, 50.1002},
	"куйбышев":           {53.1959, 50.1002},
	"симбирск":           {54.3142, 48.4031},
	"ульяновск":          {54.3142, 48.4031},
	"казань":             {55.7963, 49.1088},
	"вятка":              {58.6036, 49.6680},
	"киров":              {58.6036, 49.6680},
	"пермь":              {58.0105, 56.2502},
	"молотов":            {58.0105, 56.2502},
	"уфа":                {54.7388, 55.9721},
	"оренбург":           {51.7682, 55.0969},
	"чкалов":             {51.7682, 55.0969},
	"екатеринбург":       {56.8389, 60.6057},
	"свердловск":         {56.8389, 60.6057},
	"челябинск":          {55.1644, 61.4368},
	"тюмень":             {57.1530, 65.5343},
	"тобольск":           {58.1981, 68.2537},
	"омск":               {54.9885, 73.3242},
	"томск":              {56.4846, 84.9476},
	"новосибирск":        {55.0084, 82.9357},
	"новониколаевск":     {55.0084, 82.9357},
	"барнаул":            {53.3548, 83.7698},
	"красноярск":         {56.0153, 92.8932},
	"иркутск":            {52.2870, 104.3050},
	"чита":               {52.0515, 113.4712},
	"хабаровск":          {48.4802, 135.0719},
	"владивосток":        {43.1198, 131.8869},
	"астрахань":          {46.3497, 48.0408},
	"царицын":            {48.7080, 44.5133},
	"сталинград":         {48.7080, 44.5133},
	"волгоград":          {48.7080, 44.5133},
	"ростов-на-дону":     {47.2357, 39.7015},
	"ростов":             {47.2357, 39.7015},
	"таганрог":           {47.2362, 38.8969},
	"новочеркасск":       {47.4220, 40.0939},
	"екатеринодар":       {45.0355, 38.9753},
	"краснодар":          {45.0355, 38.9753},
	"ставрополь":         {45.0448, 41.9691},
	"владикавказ":        {43.0367, 44.6678},
	"тифлис":             {41.7151, 44.8271},
	"тбилиси":            {41.7151, 44.8271},
	"баку":               {40.4093, 49.8671},
	"эривань":            {40.1792, 44.4991},
	"ереван":             {40.1792, 44.4991},
	"ташкент":            {41.2995, 69.2401},
	"самарканд":          {39.6270, 66.9750},
	"архангельск":        {64.5393, 40.5187},
	"вологда":            {59.2181, 39.8886},
	"петрозаводск":       {61.7849, 34.3469},
	"мурманск":           {68.9585, 33.0827},
	"вильна":             {54.6872, 25.2797},
	"вильнюс":            {54.6872, 25.2797},
	"рига":               {56.9496, 24.1052},
	"ревель":             {59.4370, 24.7536},
	"таллин":             {59.4370, 24.7536},
	"гельсингфорс":       {60.1699, 24.9384},
	"варшава":            {52.2297, 21.0122},
	"минск":              {53.9006, 27.5590},
	"витебск":            {55.1904, 30.2049},
	"могилев":            {53.8945, 30.3305},
	"гомель":             {52.4412, 30.9878},
	"киев":               {50.4501, 30.5234},
	"харьков":            {49.9935, 36.2304},
	"одесса":             {46.4825, 30.7233},
	"екатеринослав":      {48.4647, 35.0462},
	"днепропетровск":     {48.4647, 35.0462},
	"полтава":            {49.5883, 34.5514},
	"чернигов":           {51.4982, 31.2893},
	"житомир":            {50.2547, 28.6587},
	"херсон":             {46.6354, 32.6169},
	"николаев":           {46.9750, 31.9946},
	"севастополь":        {44.6166, 33.5254},
	"симферополь":        {44.9521, 34.1024},
	"ялта":               {44.4952, 34.1663},
	"кишинев":            {47.0105, 28.8638},
}
