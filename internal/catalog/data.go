package catalog

// Entry is one topic under a (subject, grade) pair. Sub-topic order is the
// display order; an empty SubTopics list sends the learner straight into the
// question loop.
type Entry struct {
	Topic     string
	SubTopics []string
}

// subjects fixes the display order of the offered subjects.
var subjects = []string{
	"Mathematics",
	"Mathematical Literacy",
	"Physical Sciences",
	"Life Sciences",
	"Geography",
	"History",
}

// curriculum holds the CAPS-aligned taxonomy. Only (subject, grade) pairs
// present here are offered; Mathematical Literacy, Physical Sciences and Life
// Sciences are FET subjects and start at grade 10.
var curriculum = map[string]map[int][]Entry{
	"Mathematics": {
		8: {
			{Topic: "Whole numbers", SubTopics: []string{
				"Properties of numbers", "Calculations with whole numbers", "Multiples and factors", "Ratio and rate",
			}},
			{Topic: "Integers", SubTopics: []string{
				"Counting with integers", "Adding and subtracting integers", "Multiplying and dividing integers",
			}},
			{Topic: "Exponents", SubTopics: []string{
				"Squares and cubes", "Laws of exponents", "Scientific notation",
			}},
			{Topic: "Algebraic expressions", SubTopics: []string{
				"Recognising patterns", "Simplifying expressions", "Substitution",
			}},
			{Topic: "Algebraic equations", SubTopics: []string{
				"Setting up equations", "Solving by inspection", "Solving with inverse operations",
			}},
			{Topic: "Geometry of straight lines", SubTopics: []string{
				"Angle relationships", "Parallel lines and transversals", "Perpendicular lines",
			}},
			{Topic: "Data handling", SubTopics: []string{
				"Collecting data", "Bar graphs and histograms", "Mean, median and mode",
			}},
		},
		9: {
			{Topic: "Integers and rational numbers", SubTopics: []string{
				"Operations with integers", "Fractions and decimals", "Rounding and estimation",
			}},
			{Topic: "Exponents", SubTopics: []string{
				"Laws of exponents", "Negative exponents", "Scientific notation",
			}},
			{Topic: "Algebraic expressions", SubTopics: []string{
				"Products and factors", "Simplifying algebraic fractions", "Substitution",
			}},
			{Topic: "Algebraic equations", SubTopics: []string{
				"Linear equations", "Equations with fractions", "Word problems",
			}},
			{Topic: "Functions and relationships", SubTopics: []string{
				"Input and output values", "Tables and formulae", "Graphs on the Cartesian plane",
			}},
			{Topic: "Geometry of 2D shapes", SubTopics: []string{
				"Classifying triangles", "Properties of quadrilaterals", "Similar and congruent shapes",
			}},
			{Topic: "Data handling", SubTopics: []string{
				"Histograms", "Pie charts", "Measures of central tendency",
			}},
		},
		10: {
			{Topic: "Algebra", SubTopics: []string{
				"Simplifying expressions", "Factorising", "Quadratic equations (solve)",
				"Linear equations", "Exponents and surds", "Algebraic fractions",
			}},
			{Topic: "Functions", SubTopics: []string{
				"Straight line graphs", "Parabolas", "Hyperbolas", "Exponential graphs", "Interpreting graphs",
			}},
			{Topic: "Number patterns", SubTopics: []string{
				"Linear patterns", "Finding the general term",
			}},
			{Topic: "Trigonometry", SubTopics: []string{
				"Definitions of ratios", "Solving right-angled triangles", "Trig on the Cartesian plane", "Special angles",
			}},
			{Topic: "Euclidean geometry", SubTopics: []string{
				"Properties of quadrilaterals", "Midpoint theorem", "Proofs with triangles",
			}},
			{Topic: "Analytical geometry", SubTopics: []string{
				"Distance formula", "Gradient", "Midpoint", "Equation of a line",
			}},
			{Topic: "Statistics", SubTopics: []string{
				"Measures of central tendency", "Five number summary", "Box and whisker plots",
			}},
			{Topic: "Probability", SubTopics: []string{
				"Theoretical probability", "Venn diagrams", "Mutually exclusive events",
			}},
		},
		11: {
			{Topic: "Algebra", SubTopics: []string{
				"Completing the square", "Quadratic inequalities", "Simultaneous equations", "Nature of roots", "Exponents and surds",
			}},
			{Topic: "Functions", SubTopics: []string{
				"Parabolas and transformations", "Hyperbolas", "Exponential functions", "Average gradient",
			}},
			{Topic: "Number patterns", SubTopics: []string{
				"Quadratic patterns", "General term of a quadratic pattern",
			}},
			{Topic: "Trigonometry", SubTopics: []string{
				"Identities", "Reduction formulae", "Trig equations", "Sine, cosine and area rules",
			}},
			{Topic: "Euclidean geometry", SubTopics: []string{
				"Circle theorems", "Cyclic quadrilaterals", "Tangents",
			}},
			{Topic: "Analytical geometry", SubTopics: []string{
				"Inclination of a line", "Parallel and perpendicular lines",
			}},
			{Topic: "Measurement", SubTopics: []string{
				"Surface area and volume", "Effects of scaling dimensions",
			}},
			{Topic: "Probability", SubTopics: []string{
				"Dependent and independent events", "Tree diagrams", "Contingency tables",
			}},
		},
	},
	"Mathematical Literacy": {
		10: {
			{Topic: "Numbers and calculations", SubTopics: []string{
				"Rounding in context", "Percentages", "Ratio and proportion",
			}},
			{Topic: "Patterns and relationships", SubTopics: []string{
				"Tables of values", "Graphs from situations",
			}},
			{Topic: "Finance", SubTopics: []string{
				"Income and expenditure", "Budgets", "Simple interest", "VAT",
			}},
			{Topic: "Measurement", SubTopics: []string{
				"Length and distance", "Perimeter and area", "Volume", "Temperature",
			}},
			{Topic: "Maps and plans", SubTopics: []string{
				"Scale on maps", "Floor plans", "Directions and routes",
			}},
			{Topic: "Data handling", SubTopics: []string{
				"Collecting and sorting data", "Graphs", "Averages in context",
			}},
		},
		11: {
			{Topic: "Finance", SubTopics: []string{
				"Compound interest", "Inflation", "Exchange rates", "Tariff systems",
			}},
			{Topic: "Measurement", SubTopics: []string{
				"Conversions between units", "Surface area in context", "Packaging problems",
			}},
			{Topic: "Maps and plans", SubTopics: []string{
				"Reading route maps", "Elevation plans", "Models from plans",
			}},
			{Topic: "Data handling", SubTopics: []string{
				"Box plots in context", "Comparing data sets", "Misleading graphs",
			}},
			{Topic: "Probability", SubTopics: []string{
				"Games of chance", "Weather predictions", "Risk statements",
			}},
		},
	},
	"Physical Sciences": {
		10: {
			{Topic: "Matter and classification", SubTopics: []string{
				"Pure substances and mixtures", "Metals and non-metals", "Names and formulae of compounds",
			}},
			{Topic: "Chemical bonding", SubTopics: []string{
				"Covalent bonding", "Ionic bonding", "Metallic bonding",
			}},
			{Topic: "Chemical reactions", SubTopics: []string{
				"Balancing equations", "Reaction types", "Conservation of mass",
			}},
			{Topic: "Motion in one dimension", SubTopics: []string{
				"Position and displacement", "Speed and velocity", "Equations of motion", "Graphs of motion",
			}},
			{Topic: "Mechanical energy", SubTopics: []string{
				"Gravitational potential energy", "Kinetic energy", "Conservation of mechanical energy",
			}},
			{Topic: "Electrostatics", SubTopics: []string{
				"Charge", "Coulomb's law basics", "Conductors and insulators",
			}},
			{Topic: "Electric circuits", SubTopics: []string{
				"Current and potential difference", "Resistance", "Series and parallel circuits",
			}},
		},
		11: {
			{Topic: "Vectors and scalars", SubTopics: []string{
				"Resultant vectors", "Components of vectors",
			}},
			{Topic: "Newton's laws", SubTopics: []string{
				"Force diagrams", "First and second laws", "Friction", "Universal gravitation",
			}},
			{Topic: "Atomic combinations", SubTopics: []string{
				"Molecular shapes", "Electronegativity", "Bond energy",
			}},
			{Topic: "Intermolecular forces", SubTopics: []string{
				"Types of intermolecular forces", "Properties of water",
			}},
			{Topic: "Quantitative aspects of chemical change", SubTopics: []string{
				"The mole", "Concentration", "Limiting reagents", "Percentage yield",
			}},
			{Topic: "Electric circuits", SubTopics: []string{
				"Ohm's law", "Power and energy", "Internal resistance",
			}},
			{Topic: "Acids and bases", SubTopics: []string{
				"Acid-base reactions", "pH scale", "Neutralisation",
			}},
		},
	},
	"Life Sciences": {
		10: {
			{Topic: "Cells: the basic units of life", SubTopics: []string{
				"Cell structure", "Cell organelles", "Movement across membranes",
			}},
			{Topic: "Cell division", SubTopics: []string{
				"The cell cycle", "Mitosis", "Cancer",
			}},
			{Topic: "Plant and animal tissues", SubTopics: []string{
				"Plant tissues", "Animal tissues", "Organs",
			}},
			{Topic: "Support systems", SubTopics: []string{
				"Support in plants", "The human skeleton", "Muscles and movement",
			}},
			{Topic: "Transport systems in mammals", SubTopics: []string{
				"The heart", "Blood vessels", "The cardiac cycle",
			}},
			{Topic: "Biosphere and ecosystems", SubTopics: []string{
				"Biomes of South Africa", "Energy flow", "Nutrient cycles",
			}},
			{Topic: "History of life on Earth", SubTopics: nil},
		},
		11: {
			{Topic: "Biodiversity of microorganisms", SubTopics: []string{
				"Viruses and bacteria", "Diseases", "Immunity",
			}},
			{Topic: "Biodiversity of plants", SubTopics: []string{
				"Bryophytes to angiosperms", "Reproduction in plants",
			}},
			{Topic: "Biodiversity of animals", SubTopics: []string{
				"Body plans", "Phyla of the animal kingdom",
			}},
			{Topic: "Photosynthesis", SubTopics: []string{
				"Light and dark reactions", "Factors affecting rate",
			}},
			{Topic: "Cellular respiration", SubTopics: []string{
				"Aerobic respiration", "Anaerobic respiration",
			}},
			{Topic: "Human nutrition", SubTopics: []string{
				"The digestive system", "Absorption", "Balanced diets",
			}},
			{Topic: "Population ecology", SubTopics: []string{
				"Population size", "Interactions in ecosystems",
			}},
		},
	},
	"Geography": {
		8: {
			{Topic: "Maps and scale", SubTopics: []string{
				"Map symbols", "Line scale and word scale", "Calculating distance",
			}},
			{Topic: "Volcanoes and earthquakes", SubTopics: []string{
				"Structure of the Earth", "Why volcanoes erupt", "Earthquake zones",
			}},
			{Topic: "Climate regions", SubTopics: []string{
				"Factors affecting climate", "South African climate regions",
			}},
			{Topic: "Settlement", SubTopics: []string{
				"Rural settlements", "Urban settlements", "Land use",
			}},
			{Topic: "Transport and trade", SubTopics: nil},
		},
		9: {
			{Topic: "Map skills", SubTopics: []string{
				"Topographic maps", "Contour lines", "Cross sections",
			}},
			{Topic: "Development issues", SubTopics: []string{
				"Measuring development", "Factors affecting development",
			}},
			{Topic: "Surface forces of the Earth", SubTopics: []string{
				"Weathering", "Erosion and deposition",
			}},
			{Topic: "Resource use and sustainability", SubTopics: []string{
				"Renewable and non-renewable resources", "Conservation",
			}},
		},
		10: {
			{Topic: "The atmosphere", SubTopics: []string{
				"Structure of the atmosphere", "Heating of the atmosphere", "Global air circulation", "Weather systems",
			}},
			{Topic: "Geomorphology", SubTopics: []string{
				"Plate tectonics", "Folding and faulting", "Landforms",
			}},
			{Topic: "Population geography", SubTopics: []string{
				"Population structure", "Population movements", "HIV and AIDS impact",
			}},
			{Topic: "Water resources", SubTopics: []string{
				"The hydrological cycle", "Rivers in South Africa", "Flooding",
			}},
			{Topic: "Map work and GIS", SubTopics: []string{
				"Map projections", "GIS concepts", "Calculations on maps",
			}},
		},
		11: {
			{Topic: "The atmosphere and climate", SubTopics: []string{
				"Global air circulation", "Africa's weather systems", "Drought and desertification",
			}},
			{Topic: "Geomorphology of drainage basins", SubTopics: []string{
				"Drainage patterns", "River profiles", "Fluvial landforms",
			}},
			{Topic: "Development geography", SubTopics: []string{
				"Development models", "Trade and development",
			}},
			{Topic: "Resources and sustainability", SubTopics: []string{
				"Soil as a resource", "Energy in South Africa",
			}},
			{Topic: "Map work and GIS", SubTopics: []string{
				"Topographic map interpretation", "Orthophoto maps", "GIS applications",
			}},
		},
	},
	"History": {
		8: {
			{Topic: "The Industrial Revolution", SubTopics: []string{
				"Britain's industrialisation", "Child labour", "Changes in southern Africa",
			}},
			{Topic: "The Mineral Revolution in South Africa", SubTopics: []string{
				"Diamonds in Kimberley", "Gold on the Witwatersrand", "Migrant labour",
			}},
			{Topic: "The Scramble for Africa", SubTopics: []string{
				"Causes of colonisation", "The Berlin Conference", "African resistance",
			}},
			{Topic: "World War I", SubTopics: []string{
				"Causes of the war", "Trench warfare", "South Africa's involvement",
			}},
		},
		9: {
			{Topic: "World War II", SubTopics: []string{
				"Rise of Nazi Germany", "The war in Europe", "The Holocaust",
			}},
			{Topic: "The Nuclear Age and Cold War", SubTopics: []string{
				"Hiroshima and Nagasaki", "Superpower rivalry",
			}},
			{Topic: "Apartheid in South Africa", SubTopics: []string{
				"Apartheid laws", "Resistance movements", "The road to democracy",
			}},
			{Topic: "Human rights in South Africa", SubTopics: []string{
				"The Bill of Rights", "Children's rights",
			}},
		},
		10: {
			{Topic: "The world around 1600", SubTopics: []string{
				"Ming China", "The Songhai Empire", "European societies",
			}},
			{Topic: "European expansion and conquest", SubTopics: []string{
				"Portuguese exploration", "The Dutch at the Cape", "Consequences of conquest",
			}},
			{Topic: "The French Revolution", SubTopics: []string{
				"Causes", "The Reign of Terror", "Legacy of the revolution",
			}},
			{Topic: "Transformations in southern Africa", SubTopics: []string{
				"The Mfecane", "The rise of the Zulu kingdom",
			}},
			{Topic: "Colonial expansion after 1750", SubTopics: []string{
				"The Cape frontier", "The Great Trek",
			}},
		},
		11: {
			{Topic: "Communism in Russia", SubTopics: []string{
				"The 1917 revolutions", "Stalin's Five-Year Plans",
			}},
			{Topic: "Capitalism in the USA", SubTopics: []string{
				"The Roaring Twenties", "The Great Depression", "The New Deal",
			}},
			{Topic: "Ideas of race in the late 19th century", SubTopics: []string{
				"Social Darwinism", "Case study: Australia", "Case study: Namibia",
			}},
			{Topic: "Nationalism in South Africa", SubTopics: []string{
				"African nationalism", "Afrikaner nationalism",
			}},
			{Topic: "Apartheid South Africa 1940s-1960s", SubTopics: []string{
				"Segregation before 1948", "Apartheid legislation", "The Defiance Campaign", "Sharpeville",
			}},
		},
	},
}

// aliases resolves common learner spellings to canonical subject names.
var aliases = map[string]string{
	"math":                  "Mathematics",
	"maths":                 "Mathematics",
	"mathematics":           "Mathematics",
	"wiskunde":              "Mathematics",
	"izibalo":               "Mathematics",
	"math lit":              "Mathematical Literacy",
	"maths lit":             "Mathematical Literacy",
	"mathlit":               "Mathematical Literacy",
	"mathematical literacy": "Mathematical Literacy",
	"science":               "Physical Sciences",
	"sciences":              "Physical Sciences",
	"physics":               "Physical Sciences",
	"chemistry":             "Physical Sciences",
	"chem":                  "Physical Sciences",
	"physical science":      "Physical Sciences",
	"physical sciences":     "Physical Sciences",
	"bio":                   "Life Sciences",
	"biology":               "Life Sciences",
	"life science":          "Life Sciences",
	"life sciences":         "Life Sciences",
	"geo":                   "Geography",
	"geography":             "Geography",
	"history":               "History",
	"geskiedenis":           "History",
}
