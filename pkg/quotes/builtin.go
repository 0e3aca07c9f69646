package quotes

var builtinQuotes = []Quote{
	{Text: "Be still, and know that I am God.", Reference: "Psalm 46:10"},
	{Text: "The Lord is my shepherd; I shall not want.", Reference: "Psalm 23:1"},
	{Text: "Come unto me, all ye that labour and are heavy laden, and I will give you rest.", Reference: "Matthew 11:28"},
	{Text: "Cast all your anxiety on him because he cares for you.", Reference: "1 Peter 5:7"},
	{Text: "Peace I leave with you, my peace I give unto you.", Reference: "John 14:27"},
	{Text: "I can do all things through Christ which strengtheneth me.", Reference: "Philippians 4:13"},
	{Text: "Trust in the Lord with all thine heart; and lean not unto thine own understanding.", Reference: "Proverbs 3:5"},
	{Text: "The Lord is nigh unto them that are of a broken heart.", Reference: "Psalm 34:18"},
	{Text: "Weeping may endure for a night, but joy cometh in the morning.", Reference: "Psalm 30:5"},
	{Text: "Fear thou not; for I am with thee: be not dismayed; for I am thy God.", Reference: "Isaiah 41:10"},
	{Text: "This is the day which the Lord hath made; we will rejoice and be glad in it.", Reference: "Psalm 118:24"},
	{Text: "Thy word is a lamp unto my feet, and a light unto my path.", Reference: "Psalm 119:105"},
	{Text: "Love is patient, love is kind.", Reference: "1 Corinthians 13:4"},
	{Text: "God is our refuge and strength, a very present help in trouble.", Reference: "Psalm 46:1"},
	{Text: "They that wait upon the Lord shall renew their strength.", Reference: "Isaiah 40:31"},
	{Text: "Rejoice in hope, be patient in tribulation, be constant in prayer.", Reference: "Romans 12:12"},
	{Text: "The peace of God, which passeth all understanding, shall keep your hearts and minds.", Reference: "Philippians 4:7"},
	{Text: "Let all that you do be done in love.", Reference: "1 Corinthians 16:14"},
	{Text: "Create in me a clean heart, O God; and renew a right spirit within me.", Reference: "Psalm 51:10"},
	{Text: "His mercies are new every morning: great is thy faithfulness.", Reference: "Lamentations 3:23"},
	{Text: "Ask, and it shall be given you; seek, and ye shall find.", Reference: "Matthew 7:7"},
	{Text: "Be strong and of a good courage; be not afraid.", Reference: "Joshua 1:9"},
	{Text: "Pray without ceasing. In every thing give thanks.", Reference: "1 Thessalonians 5:17-18"},
	{Text: "The Lord bless thee, and keep thee.", Reference: "Numbers 6:24"},
	{Text: "In quietness and in confidence shall be your strength.", Reference: "Isaiah 30:15"},
}
