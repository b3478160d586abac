package question

import "github.com/MankweAI/goat-edtech/internal/models"

// Curated offline questions. Worked solutions are numbered so the hint
// engine can peel off single steps.

var trigPool = []bankItem{
	{
		text:           "In right-angled triangle ABC, the right angle is at B. AB = 3 cm and BC = 4 cm. Calculate the length of AC, then write down the value of sin A.",
		solution:       "Step 1: Use the theorem of Pythagoras: AC² = AB² + BC² = 9 + 16 = 25\nStep 2: AC = 5 cm\nStep 3: sin A = opposite/hypotenuse = BC/AC = 4/5",
		classification: "trig_ratio",
		difficulty:     models.DifficultySimplified,
	},
	{
		text:           "Without a calculator, evaluate sin 30° + cos 60°.",
		solution:       "Step 1: Recall the special angle values: sin 30° = 1/2\nStep 2: cos 60° = 1/2\nStep 3: sin 30° + cos 60° = 1/2 + 1/2 = 1",
		classification: "special_angles",
		difficulty:     models.DifficultyMixed,
	},
	{
		text:           "Solve for θ if 2 sin θ = 1 and 0° ≤ θ ≤ 90°.",
		solution:       "Step 1: Divide both sides by 2: sin θ = 1/2\nStep 2: Apply the inverse: θ = sin⁻¹(1/2)\nStep 3: θ = 30°",
		classification: "trig_equation",
		difficulty:     models.DifficultyChallenging,
	},
	{
		text:           "Prove the identity: (1 - cos²θ)/sin θ = sin θ, for sin θ ≠ 0.",
		solution:       "Step 1: Start from the square identity sin²θ + cos²θ = 1, so 1 - cos²θ = sin²θ\nStep 2: Substitute into the left side: sin²θ/sin θ\nStep 3: Simplify: sin²θ/sin θ = sin θ, which equals the right side",
		classification: "trig_identity",
		difficulty:     models.DifficultyExpert,
	},
}

var functionsPool = []bankItem{
	{
		text:           "Given f(x) = 2x + 3, calculate f(4) and find x when f(x) = 11.",
		solution:       "Step 1: f(4) = 2(4) + 3 = 11\nStep 2: For f(x) = 11, set 2x + 3 = 11\nStep 3: 2x = 8, so x = 4",
		classification: "linear_function",
		difficulty:     models.DifficultySimplified,
	},
	{
		text:           "Sketch the graph of y = x² - 4, clearly showing the intercepts with the axes.",
		solution:       "Step 1: Find the y-intercept by setting x = 0: y = -4\nStep 2: Find the x-intercepts by setting y = 0: x² = 4, so x = -2 or x = 2\nStep 3: The turning point is (0; -4) and the arms open upward\nStep 4: Plot the three points and draw a smooth parabola through them",
		classification: "parabola_sketch",
		difficulty:     models.DifficultyMixed,
	},
	{
		text:           "Determine the equation of the straight line through the points (1; 3) and (3; 7).",
		solution:       "Step 1: Calculate the gradient: m = (7 - 3)/(3 - 1) = 2\nStep 2: Substitute m and the point (1; 3) into y = mx + c: 3 = 2(1) + c\nStep 3: Solve for c: c = 1\nStep 4: The equation is y = 2x + 1",
		classification: "straight_line",
		difficulty:     models.DifficultyChallenging,
	},
	{
		text:           "The graph of y = a·2ˣ + q passes through (0; 3) and has asymptote y = 1. Determine a and q.",
		solution:       "Step 1: The horizontal asymptote of y = a·2ˣ + q is y = q, so q = 1\nStep 2: Substitute (0; 3): 3 = a·2⁰ + 1\nStep 3: Since 2⁰ = 1, a = 2\nStep 4: The equation is y = 2·2ˣ + 1",
		classification: "exponential_function",
		difficulty:     models.DifficultyExpert,
	},
}

var patternsPool = []bankItem{
	{
		text:           "Write down the next two terms of the pattern: 5; 8; 11; 14; ...",
		solution:       "Step 1: Find the common difference: 8 - 5 = 3\nStep 2: Add 3 to the last term: 14 + 3 = 17\nStep 3: Add 3 again: 17 + 3 = 20",
		classification: "number_pattern",
		difficulty:     models.DifficultySimplified,
	},
	{
		text:           "Determine the general term Tₙ of the sequence 4; 7; 10; 13; ...",
		solution:       "Step 1: The common difference is d = 3, so the pattern is linear\nStep 2: Use Tₙ = dn + c: substitute T₁ = 4 to get 3(1) + c = 4\nStep 3: Solve c = 1, so Tₙ = 3n + 1",
		classification: "number_pattern",
		difficulty:     models.DifficultyMixed,
	},
	{
		text:           "The sequence 2; 6; 12; 20; ... has a quadratic pattern. Determine Tₙ.",
		solution:       "Step 1: First differences are 4; 6; 8 and second differences are constant at 2, so Tₙ = an² + bn + c with 2a = 2, giving a = 1\nStep 2: Substitute T₁ = 2: 1 + b + c = 2\nStep 3: Substitute T₂ = 6: 4 + 2b + c = 6\nStep 4: Solve the two equations: b = 1, c = 0, so Tₙ = n² + n",
		classification: "quadratic_pattern",
		difficulty:     models.DifficultyChallenging,
	},
}

var subjectPools = map[string][]bankItem{
	"Physical Sciences": {
		{
			text:           "A car accelerates uniformly from rest at 2 m·s⁻² for 6 s. Calculate its final velocity.",
			solution:       "Step 1: Write down what is given: u = 0 m·s⁻¹, a = 2 m·s⁻², t = 6 s\nStep 2: Choose the equation v = u + at\nStep 3: Substitute: v = 0 + (2)(6) = 12 m·s⁻¹",
			classification: "kinematics",
			difficulty:     models.DifficultySimplified,
		},
		{
			text:           "A resistor of 4 Ω carries a current of 3 A. Calculate the potential difference across it and the power it dissipates.",
			solution:       "Step 1: Apply Ohm's law: V = IR = (3)(4) = 12 V\nStep 2: Use P = VI for power\nStep 3: P = (12)(3) = 36 W",
			classification: "electric_circuit",
			difficulty:     models.DifficultyMixed,
		},
		{
			text:           "A 2 kg ball is dropped from a height of 5 m. Ignoring air resistance, use energy conservation to find its speed just before it lands. Take g = 9,8 m·s⁻².",
			solution:       "Step 1: Mechanical energy is conserved: Ep at the top equals Ek at the bottom\nStep 2: mgh = ½mv², so the mass cancels: v² = 2gh\nStep 3: v² = 2(9,8)(5) = 98\nStep 4: v = √98 ≈ 9,9 m·s⁻¹",
			classification: "energy_conservation",
			difficulty:     models.DifficultyChallenging,
		},
	},
	"Life Sciences": {
		{
			text:           "Name the organelle where cellular respiration takes place, and state ONE reason why muscle cells contain many of them.",
			solution:       "Step 1: The organelle is the mitochondrion\nStep 2: Muscle cells need large amounts of ATP for contraction\nStep 3: Many mitochondria supply that energy demand",
			classification: "cell_biology",
			difficulty:     models.DifficultySimplified,
		},
		{
			text:           "Write the balanced word equation for photosynthesis and name the TWO requirements the plant absorbs from its surroundings.",
			solution:       "Step 1: Word equation: carbon dioxide + water → glucose + oxygen, in the presence of light and chlorophyll\nStep 2: Carbon dioxide is absorbed from the air through stomata\nStep 3: Water is absorbed from the soil through the roots",
			classification: "photosynthesis",
			difficulty:     models.DifficultyMixed,
		},
		{
			text:           "Explain why the human heart is described as a double pump, referring to the two circuits involved.",
			solution:       "Step 1: The right side pumps deoxygenated blood to the lungs, the pulmonary circuit\nStep 2: The left side pumps oxygenated blood to the body, the systemic circuit\nStep 3: Blood passes through the heart twice per full circulation, hence a double pump",
			classification: "circulatory_system",
			difficulty:     models.DifficultyChallenging,
		},
	},
	"Geography": {
		{
			text:           "On a map with scale 1 : 50 000, the distance between two towns measures 6 cm. Calculate the real distance in kilometres.",
			solution:       "Step 1: Multiply the map distance by the scale: 6 cm × 50 000 = 300 000 cm\nStep 2: Convert to metres: 300 000 cm = 3 000 m\nStep 3: Convert to kilometres: 3 000 m = 3 km",
			classification: "map_scale",
			difficulty:     models.DifficultySimplified,
		},
		{
			text:           "Name the THREE layers of the atmosphere closest to the Earth in order, and state in which one weather occurs.",
			solution:       "Step 1: The layers in order are the troposphere, stratosphere and mesosphere\nStep 2: Weather occurs in the troposphere\nStep 3: This is because most water vapour and vertical mixing are found there",
			classification: "atmosphere",
			difficulty:     models.DifficultyMixed,
		},
		{
			text:           "Explain TWO ways in which a drainage basin's vegetation cover reduces flood risk downstream.",
			solution:       "Step 1: Vegetation intercepts rainfall, slowing the rate at which water reaches the soil\nStep 2: Roots increase infiltration, so less water runs off directly into rivers\nStep 3: Both effects flatten the flood peak reaching downstream areas",
			classification: "drainage_basin",
			difficulty:     models.DifficultyChallenging,
		},
	},
	"History": {
		{
			text:           "Give TWO causes of the French Revolution of 1789.",
			solution:       "Step 1: Identify the financial crisis: heavy state debt and unfair taxation of the Third Estate\nStep 2: Identify social inequality: the privileges of the nobility and clergy under the estates system\nStep 3: Either of these, with Enlightenment ideas spreading criticism of absolute monarchy, counts as a cause",
			classification: "cause_and_effect",
			difficulty:     models.DifficultySimplified,
		},
		{
			text:           "Explain the purpose of the pass laws under apartheid and ONE way in which people resisted them.",
			solution:       "Step 1: Pass laws controlled the movement of black South Africans into urban areas\nStep 2: They forced people to carry a reference book or face arrest\nStep 3: Resistance included the 1956 Women's March to the Union Buildings and the 1960 anti-pass campaign at Sharpeville",
			classification: "apartheid_legislation",
			difficulty:     models.DifficultyMixed,
		},
		{
			text:           "\"The Industrial Revolution changed southern Africa as much as it changed Britain.\" Use TWO pieces of evidence to support this statement.",
			solution:       "Step 1: British demand for raw materials drew southern Africa into global trade networks\nStep 2: The mineral discoveries brought industrial mining, railways and migrant labour systems\nStep 3: Link each piece of evidence back to the statement to complete the argument",
			classification: "source_analysis",
			difficulty:     models.DifficultyChallenging,
		},
	},
	"Mathematical Literacy": {
		{
			text:           "A jacket costs R650 excluding VAT. Calculate the final price including 15% VAT.",
			solution:       "Step 1: Calculate the VAT amount: 15% of R650 = 0,15 × 650 = R97,50\nStep 2: Add the VAT to the price: 650 + 97,50\nStep 3: The final price is R747,50",
			classification: "vat_calculation",
			difficulty:     models.DifficultySimplified,
		},
		{
			text:           "Thabo invests R2 000 at 8% per year simple interest. How much is the investment worth after 3 years?",
			solution:       "Step 1: Use A = P(1 + in) with P = 2 000, i = 0,08, n = 3\nStep 2: A = 2 000(1 + 0,24) = 2 000 × 1,24\nStep 3: A = R2 480",
			classification: "simple_interest",
			difficulty:     models.DifficultyMixed,
		},
		{
			text:           "A recipe for 4 people uses 250 g of rice. Calculate how much rice is needed for 10 people, and how many full 2 kg bags that requires.",
			solution:       "Step 1: Rice per person: 250 ÷ 4 = 62,5 g\nStep 2: For 10 people: 62,5 × 10 = 625 g\nStep 3: One 2 kg bag holds 2 000 g, so a single bag is enough",
			classification: "ratio_and_rate",
			difficulty:     models.DifficultyChallenging,
		},
	},
}

// genericPool keeps the conversation alive for subjects with no curated
// content yet.
var genericPool = []bankItem{
	{
		text:           "Summarise the main idea of the topic you are studying in TWO sentences, then list TWO facts from it you must memorise for a test.",
		solution:       "Step 1: State the central concept of the topic in your own words\nStep 2: Add one sentence on why it matters or where it applies\nStep 3: Choose two concrete facts, definitions or formulas and write them as a memorisation list",
		classification: "general_practice",
		difficulty:     models.DifficultyMixed,
	},
	{
		text:           "Create a three-question quiz on your current topic and write a model answer for each question.",
		solution:       "Step 1: Write one recall question that asks for a definition or fact\nStep 2: Write one understanding question that asks for an explanation in your own words\nStep 3: Write one application question that uses the idea in a new situation, then answer all three",
		classification: "general_practice",
		difficulty:     models.DifficultyChallenging,
	},
}
